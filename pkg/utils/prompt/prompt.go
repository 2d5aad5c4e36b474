package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/charlie0129/linkman/pkg/linker"
)

// Confirmer asks on out and reads answers from in before a target is
// replaced.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer

	// Interactive is true when in is a terminal. Hook returns nil
	// otherwise, so piped input never answers prompts.
	Interactive bool
}

func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Confirmer{in: bufio.NewReader(in), out: out, Interactive: interactive}
}

// Confirm implements the linker.Policy Confirm hook. Anything but y/yes,
// including EOF, declines.
func (c *Confirmer) Confirm(p linker.Pair, state linker.TargetState) bool {
	_, _ = fmt.Fprintf(c.out, "%s exists (%s). Replace it with a link to %s? [y/N] ", p.Target, state, p.Source)

	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		_, _ = fmt.Fprintln(c.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Hook returns the confirm hook for one reconcile pass: nil when
// prompting is disabled, overwrite is off, or input is not interactive.
func (c *Confirmer) Hook(overwrite, noConfirm bool) func(linker.Pair, linker.TargetState) bool {
	if !overwrite || noConfirm || !c.Interactive {
		return nil
	}
	return c.Confirm
}
