package linker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Enumerate lists the names of the directories directly under sourceRoot,
// sorted by name. Symlinks are followed: a link to a directory counts as a
// directory, a dangling link is ignored.
func Enumerate(sourceRoot string) ([]string, error) {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return nil, classify("stat", sourceRoot, err, KindIO)
	}
	if !info.IsDir() {
		return nil, &Error{Kind: KindNotFound, Op: "stat", Path: sourceRoot, Err: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		return nil, classify("readdir", sourceRoot, err, KindIO)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		// Follow the link, skipping it when broken.
		fi, err := os.Stat(filepath.Join(sourceRoot, entry.Name()))
		if err == nil && fi.IsDir() {
			names = append(names, entry.Name())
		}
	}

	// os.ReadDir already sorts by file name.
	return names, nil
}

// BuildMapping pairs sourceRoot/name with targetRoot/name for every name.
// It does not touch the filesystem.
func BuildMapping(names []string, sourceRoot, targetRoot string) (Mapping, error) {
	if sourceRoot == "" || targetRoot == "" {
		return nil, errors.Wrap(ErrInvalidMapping, "source and target roots must be set")
	}

	m := make(Mapping, 0, len(names))
	for _, name := range names {
		if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
			return nil, errors.Wrapf(ErrInvalidMapping, "bad entry name %q", name)
		}
		m = append(m, Pair{
			Source: filepath.Join(sourceRoot, name),
			Target: filepath.Join(targetRoot, name),
		})
	}

	return m, nil
}

// Validate checks that every pair has both paths and that no two pairs
// share a target.
func (m Mapping) Validate() error {
	seen := make(map[string]string, len(m))
	for i, p := range m {
		if p.Source == "" || p.Target == "" {
			return errors.Wrapf(ErrInvalidMapping, "pair %d has an empty path", i)
		}
		target := filepath.Clean(p.Target)
		if prev, ok := seen[target]; ok {
			return errors.Wrapf(ErrInvalidMapping, "both %s and %s want to link to %s", prev, p.Source, target)
		}
		seen[target] = p.Source
	}
	return nil
}
