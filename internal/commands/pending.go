package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/importer"
)

func newPendingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List CSV files waiting in the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			files, err := importer.Scan(cfg.Path(cfg.Import.Dir))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No pending files.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tBYTES")
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%d\n", f.Name, f.Size)
			}
			return w.Flush()
		},
	}
}
