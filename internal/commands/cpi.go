package commands

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/inflation"
	"github.com/pennywise-dev/pennywise/internal/logger"
)

func newCPICommand(opts *rootOptions) *cobra.Command {
	cpiCmd := &cobra.Command{
		Use:   "cpi",
		Short: "Manage the consumer price index series used for inflation adjustment",
	}
	cpiCmd.AddCommand(newCPIUpdateCommand(opts))
	return cpiCmd
}

func newCPIUpdateCommand(opts *rootOptions) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download the latest monthly CPI series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			dest := cfg.Path(cfg.Inflation.Series)
			client := &http.Client{Timeout: 30 * time.Second}
			series, err := inflation.Download(ctx, client, url, dest)
			if err != nil {
				return err
			}

			log := logger.FromContext(ctx)
			log.Info().
				Str("file", dest).
				Int("months", series.Len()).
				Str("latest", series.Latest().Format("2006-01")).
				Msg("updated CPI series")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", inflation.FREDURL, "CSV source for the series")

	return cmd
}
