package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/rules"
	"github.com/pennywise-dev/pennywise/internal/typemap"
)

func newRulesCommand(opts *rootOptions) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect categorization rules",
	}
	rulesCmd.AddCommand(newRulesExportCommand(opts), newRulesTestCommand(opts))
	return rulesCmd
}

func newRulesExportCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in rules to the rules file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			path := cfg.Path(cfg.RulesFile)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating rules dir: %w", err)
			}
			if err := rules.SaveFile(path, rules.DefaultGroups()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing rules file")

	return cmd
}

func newRulesTestCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <description...>",
		Short: "Show the label a transaction description would receive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			table, err := loadRules(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			description := strings.Join(args, " ")
			m, ok := table.Match(description)
			if !ok {
				fmt.Fprintf(out, "%q: no rule matches\n", description)
				return nil
			}

			parts := m.Label.Split().Trim()
			fmt.Fprintf(out, "label:   %s\n", m.Label)
			fmt.Fprintf(out, "group:   %s\n", m.Group)
			fmt.Fprintf(out, "pattern: %s\n", m.Pattern)
			fmt.Fprintf(out, "type:    %s\n", typemap.Default().Derive(parts.Primary, parts.Secondary))
			return nil
		},
	}
}
