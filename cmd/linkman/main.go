package main

import (
	"os"

	"golang.org/x/term"

	"github.com/charlie0129/linkman/pkg/cmd/apply"
	"github.com/charlie0129/linkman/pkg/cmd/check"
	"github.com/charlie0129/linkman/pkg/cmd/root"
	"github.com/charlie0129/linkman/pkg/utils/log"
)

func main() {
	rootCmd := root.NewCommand()

	rootCmd.AddCommand(check.NewCommand())
	rootCmd.AddCommand(apply.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		logger := log.GetLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
		logger.Fatal().Err(err).Msg("Error executing linkman")
	}
}
