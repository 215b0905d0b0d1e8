package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/buildinfo"
	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/logger"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "pennywise",
		Short:   "Personal finance spreadsheet: import, categorize, graph",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(cmd.ErrOrStderr(), opts.verbose)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show debug output")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(opts),
		newPendingCommand(opts),
		newHistoryCommand(opts),
		newCategorizeCommand(opts),
		newRulesCommand(opts),
		newEncryptCommand(opts),
		newDecryptCommand(opts),
		newGraphCommand(opts),
		newCPICommand(opts),
	)

	return rootCmd
}
