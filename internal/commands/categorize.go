package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/pipeline"
	"github.com/pennywise-dev/pennywise/internal/typemap"
)

func newCategorizeCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Label every transaction and rebuild the expense views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runCategorize(cmd.Context(), cfg, cmd.OutOrStdout(), dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the views and report unlabeled rows without saving")

	return cmd
}

func runCategorize(ctx context.Context, cfg *config.Config, out io.Writer, dryRun bool) error {
	log := logger.FromContext(ctx)

	table, err := loadRules(ctx, cfg)
	if err != nil {
		return err
	}
	index, err := loadIndex(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(table, typemap.Default(), index)
	p.Sheets = cfg.Sheets

	res, err := p.Categorize(ctx, store, dryRun)
	if err != nil {
		return err
	}

	log.Debug().
		Int("adjusted", res.Adjusted).
		Int("misses", res.Misses).
		Msg("inflation adjustment")

	if dryRun {
		fmt.Fprintf(out, "%d transactions, %d expenses, %d unlabeled groupings\n",
			len(res.Raw), len(res.Expenses), len(res.Unlabeled))
		for _, g := range res.Unlabeled {
			fmt.Fprintf(out, "  %s\n", g)
		}
		return nil
	}

	log.Info().Int("rows", len(res.Expenses)).Msg("Categorization complete")
	openWorkbook(ctx, cfg)
	return nil
}
