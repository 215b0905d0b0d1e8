package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/graph"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/workbook"
)

func newGraphCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "graph [all|household|property]",
		Short:     "Render spending charts from the expenses sheet",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(graph.VariantAll), string(graph.VariantHousehold), string(graph.VariantProperty)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)

			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			variant, err := graph.ParseVariant(arg)
			if err != nil {
				return err
			}
			if variant == graph.VariantProperty {
				return fmt.Errorf("graph variant %s: %w", variant, graph.ErrNotImplemented)
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			book, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading workbook: %w", err)
			}
			expenses, err := workbook.DecodeExpenses(book.Rows(cfg.Sheets.Expenses))
			if err != nil {
				return fmt.Errorf("reading %s: %w", cfg.Sheets.Expenses, err)
			}
			if len(expenses) == 0 {
				log.Warn().Msg("no expenses to graph, run `pennywise categorize` first")
				return nil
			}

			dir := cfg.Path(cfg.Graph.OutputDir)
			paths, err := graph.Render(dir, variant, expenses, cfg.Graph.StdDevs)
			if err != nil {
				return err
			}
			for _, p := range paths {
				log.Debug().Str("file", p).Msg("wrote chart")
			}
			log.Info().Str("dir", dir).Msgf("rendered %d charts", len(paths))
			return nil
		},
	}
}
