package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEnumerate_OnlyDirectories(t *testing.T) {
	src := t.TempDir()
	mkdirs(t, src, "b", "a", ".config")
	writeFile(t, filepath.Join(src, "file.txt"), "x")

	names, err := Enumerate(src)
	require.NoError(t, err)
	assert.Equal(t, []string{".config", "a", "b"}, names)
}

func TestEnumerate_FollowsDirectorySymlinks(t *testing.T) {
	src := t.TempDir()
	elsewhere := t.TempDir()
	mkdirs(t, src, "real")
	writeFile(t, filepath.Join(elsewhere, "f"), "x")

	require.NoError(t, os.Symlink(elsewhere, filepath.Join(src, "linked-dir")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "f"), filepath.Join(src, "linked-file")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "missing"), filepath.Join(src, "dangling")))

	names, err := Enumerate(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"linked-dir", "real"}, names)
}

func TestEnumerate_Empty(t *testing.T) {
	names, err := Enumerate(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEnumerate_MissingRoot(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestEnumerate_RootIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	writeFile(t, f, "x")

	_, err := Enumerate(f)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBuildMapping(t *testing.T) {
	m, err := BuildMapping([]string{"a", "b"}, "/src", "/dst")
	require.NoError(t, err)
	assert.Equal(t, Mapping{
		{Source: "/src/a", Target: "/dst/a"},
		{Source: "/src/b", Target: "/dst/b"},
	}, m)
}

func TestBuildMapping_EmptyNames(t *testing.T) {
	m, err := BuildMapping(nil, "/src", "/dst")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestBuildMapping_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		src   string
		dst   string
	}{
		{"empty source root", []string{"a"}, "", "/dst"},
		{"empty target root", []string{"a"}, "/src", ""},
		{"empty name", []string{""}, "/src", "/dst"},
		{"dot", []string{"."}, "/src", "/dst"},
		{"dotdot", []string{".."}, "/src", "/dst"},
		{"separator", []string{"a/b"}, "/src", "/dst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMapping(tt.names, tt.src, tt.dst)
			assert.ErrorIs(t, err, ErrInvalidMapping)
		})
	}
}

func TestMappingValidate_DuplicateTargets(t *testing.T) {
	m := Mapping{
		{Source: "/a", Target: "/t/x"},
		{Source: "/b", Target: "/t/x/"},
	}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMapping)
}

func TestMappingValidate_EmptyPath(t *testing.T) {
	m := Mapping{{Source: "/a", Target: ""}}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMapping)
}
