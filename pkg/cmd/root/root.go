package root

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/linkman/pkg/linker"
	"github.com/charlie0129/linkman/pkg/utils/log"
)

// Linker config
var linkerConfig = linker.Config{}

var noConfirm bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkman [flags] SOURCE_DIR TARGET_DIR",
		Short: "Link every directory in SOURCE_DIR into TARGET_DIR",
		Long: `
For every directory directly under SOURCE_DIR, make TARGET_DIR/<name> a
symbolic link to the resolved absolute path of SOURCE_DIR/<name>.

Target handling rules:
  - Target does not exist:         link is created.
  - Target already links to source: left untouched.
  - Target is a file, directory or a link pointing elsewhere:
    skipped, unless --overwrite is set. With --overwrite it is removed
    and replaced with a link (asking first on a terminal, unless
    --no-confirm is set).

Exits non-zero if any target failed.
`,
		Args:         cobra.ExactArgs(2),
		RunE:         runLink,
		SilenceUsage: true,
	}

	f := cmd.Flags()

	f.BoolVar(&linkerConfig.CreateMissingSource, "create-source", false, "Create SOURCE_DIR if it does not exist")
	f.BoolVar(&linkerConfig.Overwrite, "overwrite", false, "Replace targets that are not already correct links")
	f.BoolVar(&noConfirm, "no-confirm", false, "Do not ask before replacing existing targets")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&log.Verbosity, "verbose", "v", "Enable verbose output (-v for debug, -vv for trace)")

	return cmd
}
