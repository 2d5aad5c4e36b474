package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/charlie0129/linkman/pkg/linker"
)

type styles struct {
	ok      lipgloss.Style
	created lipgloss.Style
	skipped lipgloss.Style
	failed  lipgloss.Style
	dim     lipgloss.Style
}

// newStyles binds styles to w, so colors are only emitted when w is a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		created: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		skipped: r.NewStyle().Foreground(lipgloss.Color("3")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dim:     r.NewStyle().Faint(true),
	}
}

func (s styles) marker(st linker.Status) string {
	switch st {
	case linker.Created:
		return s.created.Render("created")
	case linker.AlreadyCorrect:
		return s.ok.Render("ok")
	case linker.Skipped:
		return s.skipped.Render("skipped")
	default:
		return s.failed.Render("FAILED")
	}
}

// Print writes one line per target followed by the aggregate counts.
func Print(w io.Writer, res linker.Result) {
	s := newStyles(w)

	for _, o := range res.Outcomes {
		line := fmt.Sprintf("[%s] %s -> %s", s.marker(o.Status), o.Target, o.Source)
		switch o.Status {
		case linker.Failed:
			line += s.dim.Render(fmt.Sprintf(" (%s)", o.Err))
		case linker.Skipped:
			line += s.dim.Render(fmt.Sprintf(" (exists as %s)", o.State))
		}
		_, _ = fmt.Fprintln(w, line)
	}

	_, _ = fmt.Fprintf(w, "Succeeded: %d/%d (created %d, already correct %d, skipped %d, failed %d)\n",
		res.Succeeded(), res.Total(),
		res.Count(linker.Created),
		res.Count(linker.AlreadyCorrect),
		res.Count(linker.Skipped),
		res.Count(linker.Failed),
	)
}

// PrintStates writes the inspected state of every target and returns the
// number of targets that are correct links.
func PrintStates(w io.Writer, m linker.Mapping, states []linker.TargetState) int {
	s := newStyles(w)

	correct := 0
	for i, p := range m {
		marker := s.skipped.Render(states[i].String())
		if states[i] == linker.IsCorrectLink {
			marker = s.ok.Render(states[i].String())
			correct++
		}
		_, _ = fmt.Fprintf(w, "[%s] %s -> %s\n", marker, p.Target, p.Source)
	}

	_, _ = fmt.Fprintf(w, "In sync: %d/%d\n", correct, len(m))
	return correct
}
