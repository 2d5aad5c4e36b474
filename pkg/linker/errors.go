package linker

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

// Kind classifies per-pair failures so callers can tell them apart without
// parsing messages.
type Kind string

const (
	KindNotFound           Kind = "not-found"
	KindPermissionDenied   Kind = "permission-denied"
	KindTypeMismatch       Kind = "type-mismatch"
	KindLinkCreationFailed Kind = "link-creation-failed"
	KindIO                 Kind = "io"
)

// ErrInvalidMapping is returned before any filesystem mutation when a
// mapping cannot be built or reconciled as given.
var ErrInvalidMapping = errors.New("invalid link mapping")

// Error is a classified filesystem failure.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Op + " " + e.Path
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// classify wraps err into an *Error. Permission and not-exist errors get
// their own kinds; anything else falls back to fallback. The op and path
// already carried by a *fs.PathError or *os.LinkError are dropped, since
// the *Error repeats them.
func classify(op, path string, err error, fallback Kind) *Error {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr):
		err = pathErr.Err
	case errors.As(err, &linkErr):
		err = linkErr.Err
	}

	kind := fallback
	switch {
	case os.IsPermission(err):
		kind = KindPermissionDenied
	case errors.Is(err, fs.ErrNotExist) && fallback != KindLinkCreationFailed:
		kind = KindNotFound
	}

	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
