package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/linkman/pkg/linker"
)

func TestPrint(t *testing.T) {
	res := linker.Result{Outcomes: []linker.Outcome{
		{Pair: linker.Pair{Source: "/s/a", Target: "/t/a"}, Status: linker.Created},
		{Pair: linker.Pair{Source: "/s/b", Target: "/t/b"}, Status: linker.AlreadyCorrect, State: linker.IsCorrectLink},
		{Pair: linker.Pair{Source: "/s/c", Target: "/t/c"}, Status: linker.Skipped, State: linker.IsDirectory},
		{Pair: linker.Pair{Source: "/s/d", Target: "/t/d"}, Status: linker.Failed, Err: &linker.Error{
			Kind: linker.KindPermissionDenied, Op: "symlink", Path: "/t/d", Err: errors.New("permission denied"),
		}},
	}}

	var buf bytes.Buffer
	Print(&buf, res)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)

	assert.Contains(t, lines[0], "created")
	assert.Contains(t, lines[0], "/t/a -> /s/a")
	assert.Contains(t, lines[1], "ok")
	assert.Contains(t, lines[2], "skipped")
	assert.Contains(t, lines[2], "exists as is-directory")
	assert.Contains(t, lines[3], "FAILED")
	assert.Contains(t, lines[3], "permission-denied: symlink /t/d: permission denied")
	assert.Equal(t, "Succeeded: 2/4 (created 1, already correct 1, skipped 1, failed 1)", lines[4])
}

func TestPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, linker.Result{})
	assert.Equal(t, "Succeeded: 0/0 (created 0, already correct 0, skipped 0, failed 0)\n", buf.String())
}

func TestPrintStates(t *testing.T) {
	m := linker.Mapping{
		{Source: "/s/a", Target: "/t/a"},
		{Source: "/s/b", Target: "/t/b"},
	}

	var buf bytes.Buffer
	correct := PrintStates(&buf, m, []linker.TargetState{linker.IsCorrectLink, linker.Absent})

	assert.Equal(t, 1, correct)
	assert.Contains(t, buf.String(), "is-correct-link")
	assert.Contains(t, buf.String(), "absent")
	assert.Contains(t, buf.String(), "In sync: 1/2")
}
