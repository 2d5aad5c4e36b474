package linker

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/charlie0129/linkman/pkg/utils/log"
)

// Linker links every directory directly under a source root into a target
// root under the same name.
type Linker struct {
	conf   Config
	logger zerolog.Logger
}

// New panics on an invalid config, the same way a nil dependency would.
func New(conf Config, logger zerolog.Logger) *Linker {
	if err := conf.Validate(); err != nil {
		panic(err)
	}

	return &Linker{
		conf:   conf,
		logger: log.Component(logger, "linker"),
	}
}

// Mapping enumerates the source root and pairs each directory with its
// target path.
func (l *Linker) Mapping() (Mapping, error) {
	names, err := Enumerate(l.conf.SourceRoot)
	if err != nil {
		if KindOf(err) == KindNotFound && l.conf.CreateMissingSource {
			return l.createSourceRoot()
		}
		return nil, errors.Wrap(err, "failed to list source directories")
	}

	l.logger.Debug().Str("source", l.conf.SourceRoot).Int("count", len(names)).Msg("Found source directories")
	if len(names) == 0 {
		l.logger.Warn().Str("source", l.conf.SourceRoot).Msg("No directories found in source")
	}

	return BuildMapping(names, l.conf.SourceRoot, l.conf.TargetRoot)
}

// Inspect reports the state of every target without changing anything.
func (l *Linker) Inspect() (Mapping, []TargetState, error) {
	m, err := l.Mapping()
	if err != nil {
		return nil, nil, err
	}

	states := make([]TargetState, len(m))
	for i, p := range m {
		state, err := Inspect(p.Target, p.Source)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to inspect %s", p.Target)
		}
		states[i] = state
	}

	return m, states, nil
}

// Run enumerates, maps and reconciles in one pass. confirm may be nil.
func (l *Linker) Run(confirm func(Pair, TargetState) bool) (Result, error) {
	l.logger.Debug().Str("source", l.conf.SourceRoot).Str("target", l.conf.TargetRoot).Msg("Linking")

	m, err := l.Mapping()
	if err != nil {
		return Result{}, err
	}

	res, err := Reconcile(m, l.Policy(confirm), l.logger)
	if err != nil {
		return Result{}, err
	}

	l.logger.Debug().Int("succeeded", res.Succeeded()).Int("total", res.Total()).Msg("Linking done")
	return res, nil
}

// Policy returns the reconcile policy described by the linker's config.
func (l *Linker) Policy(confirm func(Pair, TargetState) bool) Policy {
	return Policy{
		CreateMissingSource: l.conf.CreateMissingSource,
		Overwrite:           l.conf.Overwrite,
		Confirm:             confirm,
	}
}

// createSourceRoot makes an empty source root. An empty root has nothing to
// link, so the mapping is empty.
func (l *Linker) createSourceRoot() (Mapping, error) {
	if err := ensureSource(l.conf.SourceRoot, true, l.logger); err != nil {
		return nil, errors.Wrap(err, "failed to create source directory")
	}
	return Mapping{}, nil
}
