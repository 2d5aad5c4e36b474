package validation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
)

var (
	ErrNoSourceProvided = errors.New("no source directory provided")
	ErrNoTargetProvided = errors.New("no target directory provided")
	ErrSameRoot         = errors.New("source and target directories must differ")
	ErrNestedRoots      = errors.New("target directory must not be inside the source directory")
)

// ExpandPath expands a leading ~, then makes the path absolute. Empty input
// stays empty. Any other character, $ included, is taken literally.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	switch {
	case path == "~":
		path = xdg.Home
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(xdg.Home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to make %s absolute", path)
	}

	return abs, nil
}

// ExpandPathRelativeTo expands $VAR and ${VAR} references, then behaves like
// ExpandPath with relative paths resolved against base instead of the
// working directory. It is meant for paths read from a manifest file.
func ExpandPathRelativeTo(path, base string) (string, error) {
	if path == "" {
		return "", nil
	}

	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	return ExpandPath(path)
}

// ValidateRoots checks a source and target root pair before any link is
// made. Both paths are expected to be expanded already.
//
// Linking source/x to target/x where target sits inside source would make
// every run enumerate its own links, so that layout is rejected.
func ValidateRoots(source, target string) error {
	if source == "" {
		return ErrNoSourceProvided
	}
	if target == "" {
		return ErrNoTargetProvided
	}

	source = filepath.Clean(source)
	target = filepath.Clean(target)

	if source == target {
		return errors.Wrapf(ErrSameRoot, "%s", source)
	}

	rel, err := filepath.Rel(source, target)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Wrapf(ErrNestedRoots, "%s is inside %s", target, source)
	}

	return nil
}

// IsUnsupportedType reports whether removal logic cannot handle the file,
// i.e. it is neither a directory, a regular file nor a symlink.
func IsUnsupportedType(info os.FileInfo) bool {
	mode := info.Mode()
	return !(mode.IsDir() || mode.IsRegular() || mode&os.ModeSymlink != 0)
}
