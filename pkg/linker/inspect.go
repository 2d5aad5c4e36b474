package linker

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Inspect classifies the current state of target relative to the source it
// is expected to link to.
//
// A symlink is correct when its fully resolved path equals the fully
// resolved path of expectedSource, so relative links and links through
// other links are recognized. A dangling link, or one resolving anywhere
// else, is IsIncorrectLink.
func Inspect(target, expectedSource string) (TargetState, error) {
	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent, nil
		}
		return Absent, classify("lstat", target, err, KindIO)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		if sameRealPath(target, expectedSource) {
			return IsCorrectLink, nil
		}
		return IsIncorrectLink, nil
	case mode.IsDir():
		return IsDirectory, nil
	default:
		return IsFile, nil
	}
}

func sameRealPath(a, b string) bool {
	realA, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	realB, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false
	}

	realA, errA := filepath.Abs(realA)
	realB, errB := filepath.Abs(realB)
	if errA != nil || errB != nil {
		return false
	}

	return realA == realB
}
