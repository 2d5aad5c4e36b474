package root

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/linkman/pkg/linker"
	"github.com/charlie0129/linkman/pkg/report"
	"github.com/charlie0129/linkman/pkg/utils/log"
	"github.com/charlie0129/linkman/pkg/utils/prompt"
)

var ErrLinksFailed = errors.New("some links could not be created")

func runLink(cmd *cobra.Command, args []string) error {
	logger := log.GetLogger(cmd.ErrOrStderr(), term.IsTerminal(int(os.Stderr.Fd())))

	conf := linkerConfig
	conf.SourceRoot = args[0]
	conf.TargetRoot = args[1]
	err := conf.Validate()
	if err != nil {
		return err
	}

	l := linker.New(conf, logger)

	confirmer := prompt.NewConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	res, err := l.Run(confirmer.Hook(conf.Overwrite, noConfirm))
	if err != nil {
		return err
	}

	report.Print(cmd.OutOrStdout(), res)

	if res.HasFailures() {
		return errors.Wrapf(ErrLinksFailed, "%d of %d failed", res.Count(linker.Failed), res.Total())
	}

	return nil
}
