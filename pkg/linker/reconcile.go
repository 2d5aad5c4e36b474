package linker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/charlie0129/linkman/pkg/validation"
)

// Reconcile brings every target in m into agreement with its source,
// strictly in mapping order.
//
// Only an invalid mapping is returned as an error, and that happens before
// anything on disk is touched. Every filesystem failure is recorded as a
// Failed outcome for its pair and the remaining pairs are still processed,
// so the result always has exactly len(m) outcomes.
//
// A target that is, or contains, any source of the mapping or any path in
// policy.Protected is never removed; that pair fails with KindTypeMismatch
// instead.
func Reconcile(m Mapping, policy Policy, logger zerolog.Logger) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	sources := protectedSources(m, policy.Protected)

	res := Result{Outcomes: make([]Outcome, 0, len(m))}
	for _, p := range m {
		o := reconcileOne(p, policy, sources, logger)
		switch o.Status {
		case Failed:
			logger.Warn().Str("target", o.Target).Str("source", o.Source).Err(o.Err).Msg("Failed to link")
		case Skipped:
			logger.Info().Str("target", o.Target).Stringer("state", o.State).Msg("Target exists, skipped")
		case AlreadyCorrect:
			logger.Debug().Str("target", o.Target).Msg("Link already correct")
		}
		res.Outcomes = append(res.Outcomes, o)
	}

	return res, nil
}

func reconcileOne(p Pair, policy Policy, sources []string, logger zerolog.Logger) Outcome {
	o := Outcome{Pair: p, State: NotInspected}
	fail := func(err error) Outcome {
		o.Status = Failed
		o.Err = err
		return o
	}

	if err := ensureSource(p.Source, policy.CreateMissingSource, logger); err != nil {
		return fail(err)
	}

	state, err := Inspect(p.Target, p.Source)
	if err != nil {
		return fail(err)
	}
	o.State = state
	logger.Trace().Str("target", p.Target).Stringer("state", state).Msg("Inspected target")

	if state == IsCorrectLink {
		o.Status = AlreadyCorrect
		return o
	}

	if state != Absent {
		if !policy.Overwrite {
			o.Status = Skipped
			return o
		}
		if err := guardTarget(p.Target, sources); err != nil {
			return fail(err)
		}
		if policy.Confirm != nil && !policy.Confirm(p, state) {
			o.Status = Skipped
			return o
		}
		if err := removeTarget(p.Target, logger); err != nil {
			return fail(err)
		}
	}

	if err := createLink(p.Source, p.Target); err != nil {
		return fail(err)
	}

	logger.Info().Str("target", p.Target).Str("source", p.Source).Msg("Created link")
	o.Status = Created
	return o
}

func ensureSource(source string, create bool, logger zerolog.Logger) error {
	_, err := os.Stat(source)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return classify("stat", source, err, KindIO)
	}
	if !create {
		return &Error{Kind: KindNotFound, Op: "stat", Path: source, Err: errors.New("source does not exist, use --create-source to create it")}
	}

	if err := os.MkdirAll(source, 0o755); err != nil {
		return classify("mkdir", source, err, KindIO)
	}
	logger.Info().Str("path", source).Msg("Created source directory")

	return nil
}

// protectedSources lists every source of m and every extra path both as
// written and fully resolved, so a source reached through a symlink is
// covered too.
func protectedSources(m Mapping, extra []string) []string {
	paths := make([]string, 0, len(m)+len(extra))
	for _, p := range m {
		paths = append(paths, p.Source)
	}
	paths = append(paths, extra...)

	sources := make([]string, 0, 2*len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		sources = append(sources, abs)
		if resolved, err := filepath.EvalSymlinks(abs); err == nil && resolved != abs {
			sources = append(sources, resolved)
		}
	}
	return sources
}

// guardTarget refuses to remove a target that is a source or an ancestor
// of one. Only the target's parent is resolved: removing a symlink target
// never touches what it points to.
func guardTarget(target string, sources []string) error {
	resolved, err := filepath.Abs(target)
	if err != nil {
		return classify("abs", target, err, KindIO)
	}
	if parent, err := filepath.EvalSymlinks(filepath.Dir(resolved)); err == nil {
		resolved = filepath.Join(parent, filepath.Base(resolved))
	}

	for _, src := range sources {
		if within(resolved, src) {
			return &Error{Kind: KindTypeMismatch, Op: "remove", Path: target, Err: errors.Errorf("refusing to remove, it contains source %s", src)}
		}
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// removeTarget deletes whatever is at target according to its concrete
// type. The type is re-read here because it may have changed since Inspect.
func removeTarget(target string, logger zerolog.Logger) error {
	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return classify("lstat", target, err, KindIO)
	}

	if validation.IsUnsupportedType(info) {
		return &Error{Kind: KindTypeMismatch, Op: "remove", Path: target, Err: errors.Errorf("unsupported file type %s", info.Mode().Type())}
	}

	if info.IsDir() {
		err = os.RemoveAll(target)
	} else {
		// Regular files and symlinks; a symlink is removed, never followed.
		err = os.Remove(target)
	}
	if err != nil {
		return classify("remove", target, err, KindIO)
	}

	logger.Debug().Str("path", target).Str("type", info.Mode().Type().String()).Msg("Removed existing target")
	return nil
}

// createLink points target at the fully resolved absolute source path, so
// the link works regardless of the working directory.
func createLink(source, target string) error {
	resolved, err := filepath.Abs(source)
	if err != nil {
		return classify("abs", source, err, KindIO)
	}
	resolved, err = filepath.EvalSymlinks(resolved)
	if err != nil {
		return classify("resolve", source, err, KindIO)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return classify("mkdir", filepath.Dir(target), err, KindLinkCreationFailed)
	}

	if err := os.Symlink(resolved, target); err != nil {
		return classify("symlink", target, err, KindLinkCreationFailed)
	}

	return nil
}

// LinkPairs reconciles an explicit list of (source, target) pairs. Paths
// are made absolute first.
func LinkPairs(pairs []Pair, policy Policy, logger zerolog.Logger) (Result, error) {
	m := make(Mapping, 0, len(pairs))
	for _, p := range pairs {
		src, err := validation.ExpandPath(p.Source)
		if err != nil {
			return Result{}, errors.Wrap(ErrInvalidMapping, err.Error())
		}
		dst, err := validation.ExpandPath(p.Target)
		if err != nil {
			return Result{}, errors.Wrap(ErrInvalidMapping, err.Error())
		}
		m = append(m, Pair{Source: src, Target: dst})
	}

	return Reconcile(m, policy, logger)
}
