package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheckCmd(args ...string) (string, error) {
	cmd := NewCommand()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestCheck(t *testing.T) {
	sourceDir := t.TempDir()
	targetDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(sourceDir, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(sourceDir, "b"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(sourceDir, "a"), filepath.Join(targetDir, "a")))

	out, err := runCheckCmd(sourceDir, targetDir)
	assert.ErrorIs(t, err, ErrOutOfSync)
	assert.Contains(t, out, "is-correct-link")
	assert.Contains(t, out, "absent")
	assert.Contains(t, out, "In sync: 1/2")

	// check must not have created anything
	_, err = os.Lstat(filepath.Join(targetDir, "b"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.Symlink(filepath.Join(sourceDir, "b"), filepath.Join(targetDir, "b")))
	out, err = runCheckCmd(sourceDir, targetDir)
	require.NoError(t, err)
	assert.Contains(t, out, "In sync: 2/2")
}

func TestCheck_MissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := runCheckCmd(filepath.Join(root, "missing"), root)
	assert.Error(t, err)
}
