//go:build linux || darwin

package linker

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_UnsupportedTargetType(t *testing.T) {
	src, dst := setupRoots(t, "a", "b")
	require.NoError(t, syscall.Mkfifo(filepath.Join(dst, "a"), 0o644))

	res, err := Reconcile(mustMapping(t, src, dst), Policy{Overwrite: true}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)

	assert.Equal(t, Failed, res.Outcomes[0].Status)
	assert.Equal(t, KindTypeMismatch, KindOf(res.Outcomes[0].Err))
	info, err := os.Lstat(filepath.Join(dst, "a"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)

	assert.Equal(t, Created, res.Outcomes[1].Status)
}
