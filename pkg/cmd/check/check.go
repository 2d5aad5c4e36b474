package check

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/linkman/pkg/linker"
	"github.com/charlie0129/linkman/pkg/report"
	"github.com/charlie0129/linkman/pkg/utils/log"
)

var ErrOutOfSync = errors.New("targets are not all linked to their sources")

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [flags] SOURCE_DIR TARGET_DIR",
		Short:        "Report the state of every target without changing anything",
		Args:         cobra.ExactArgs(2),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := log.GetLogger(cmd.ErrOrStderr(), term.IsTerminal(int(os.Stderr.Fd())))

	conf := linker.Config{
		SourceRoot: args[0],
		TargetRoot: args[1],
	}
	err := conf.Validate()
	if err != nil {
		return err
	}

	m, states, err := linker.New(conf, logger).Inspect()
	if err != nil {
		return err
	}

	correct := report.PrintStates(cmd.OutOrStdout(), m, states)
	if correct != len(m) {
		return errors.Wrapf(ErrOutOfSync, "%d of %d not linked", len(m)-correct, len(m))
	}

	return nil
}
