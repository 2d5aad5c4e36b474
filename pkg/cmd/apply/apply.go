package apply

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/linkman/pkg/linker"
	"github.com/charlie0129/linkman/pkg/manifest"
	"github.com/charlie0129/linkman/pkg/report"
	"github.com/charlie0129/linkman/pkg/utils/log"
	"github.com/charlie0129/linkman/pkg/utils/prompt"
)

var ErrLinksFailed = errors.New("some links could not be created")

var (
	manifestPath string
	noConfirm    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [flags]",
		Short: "Reconcile every link set and link listed in a manifest",
		Long: `
Reads a TOML or YAML manifest (default: linkman/links.toml, links.yaml or
links.yml under the XDG config directories) and reconciles, in order, every
[[sets]] entry (all directories of source linked into target) and every
[[links]] entry (one explicit source and target).

Relative paths are resolved against the manifest's directory.
`,
		Args:         cobra.NoArgs,
		RunE:         runApply,
		SilenceUsage: true,
	}

	f := cmd.Flags()

	f.StringVarP(&manifestPath, "file", "f", "", "Path to the manifest")
	f.BoolVar(&noConfirm, "no-confirm", false, "Do not ask before replacing existing targets")

	return cmd
}

func runApply(cmd *cobra.Command, _ []string) error {
	logger := log.GetLogger(cmd.ErrOrStderr(), term.IsTerminal(int(os.Stderr.Fd())))

	path := manifestPath
	if path == "" {
		var err error
		path, err = manifest.DefaultPath()
		if err != nil {
			return err
		}
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Int("sets", len(m.Sets)).Int("links", len(m.Links)).Msg("Loaded manifest")

	// Only manifest errors abort here. Anything that fails per entry is
	// recorded in the result and reported with the rest.
	confs, err := m.SetConfigs()
	if err != nil {
		return err
	}
	groups, err := m.LinkGroups()
	if err != nil {
		return err
	}

	steps, sources := plan(logger, confs, groups)
	res := execute(cmd, steps, sources)

	report.Print(cmd.OutOrStdout(), res)

	if res.HasFailures() {
		return errors.Wrapf(ErrLinksFailed, "%d of %d failed", res.Count(linker.Failed), res.Total())
	}

	return nil
}

// step is one manifest entry ready to reconcile. Pairs that were rejected
// while planning are already in failed.
type step struct {
	policy linker.Policy
	logger zerolog.Logger
	pairs  linker.Mapping
	failed []linker.Outcome
	// links marks explicit [[links]], which go through LinkPairs.
	links bool
}

// plan enumerates every set and claims targets in manifest order, sets
// before links. A target claimed by an earlier entry is not linked again;
// that pair fails instead. Nothing on disk is changed here apart from
// creating missing set source roots.
//
// It also returns every source root and source in the manifest, none of
// which any step may remove.
func plan(logger zerolog.Logger, confs []linker.Config, groups []manifest.LinkGroup) ([]step, []string) {
	var sources []string
	claimed := map[string]string{}
	claim := func(s *step, pairs []linker.Pair) {
		for _, p := range pairs {
			sources = append(sources, p.Source)
			key := filepath.Clean(p.Target)
			if prev, ok := claimed[key]; ok {
				s.failed = append(s.failed, failedOutcome(p, errors.Wrapf(linker.ErrInvalidMapping,
					"%s is already linked to %s by an earlier entry", p.Target, prev)))
				continue
			}
			claimed[key] = p.Source
			s.pairs = append(s.pairs, p)
		}
	}

	steps := make([]step, 0, len(confs)+len(groups))

	setLogger := log.Component(logger, "linker")
	for _, conf := range confs {
		l := linker.New(conf, logger)
		s := step{policy: l.Policy(nil), logger: setLogger}
		sources = append(sources, conf.SourceRoot)

		m, err := l.Mapping()
		if err != nil {
			root := linker.Pair{Source: conf.SourceRoot, Target: conf.TargetRoot}
			s.failed = append(s.failed, failedOutcome(root, errors.Wrapf(err, "failed to link %s into %s", conf.SourceRoot, conf.TargetRoot)))
			steps = append(steps, s)
			continue
		}
		claim(&s, m)
		steps = append(steps, s)
	}

	linksLogger := log.Component(logger, "links")
	for _, g := range groups {
		s := step{
			policy: linker.Policy{CreateMissingSource: g.CreateMissingSource, Overwrite: g.Overwrite},
			logger: linksLogger,
			links:  true,
		}
		claim(&s, g.Pairs)
		steps = append(steps, s)
	}

	return steps, sources
}

// execute reconciles every step in order and never stops early, so the
// report always covers the whole manifest.
func execute(cmd *cobra.Command, steps []step, protected []string) linker.Result {
	var res linker.Result
	confirmer := prompt.NewConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())

	for _, s := range steps {
		res.Merge(linker.Result{Outcomes: s.failed})
		if len(s.pairs) == 0 {
			continue
		}

		policy := s.policy
		policy.Confirm = confirmer.Hook(policy.Overwrite, noConfirm)
		policy.Protected = protected

		var (
			r   linker.Result
			err error
		)
		if s.links {
			r, err = linker.LinkPairs(s.pairs, policy, s.logger)
		} else {
			r, err = linker.Reconcile(s.pairs, policy, s.logger)
		}
		if err != nil {
			for _, p := range s.pairs {
				r.Outcomes = append(r.Outcomes, failedOutcome(p, err))
			}
		}
		res.Merge(r)
	}

	return res
}

func failedOutcome(p linker.Pair, err error) linker.Outcome {
	return linker.Outcome{Pair: p, Status: linker.Failed, State: linker.NotInspected, Err: err}
}
