package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/importer"
	"github.com/pennywise-dev/pennywise/internal/importlog"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/workbook"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:     "import_activity <csv_file> <bank|credit> <source_note>",
		Aliases: []string{"import"},
		Short:   "Merge a bank or credit card CSV export into the workbook",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, args[0], args[1], args[2], keep)
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave the CSV in the import directory")

	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, csvPath, schema, sourceNote string, keep bool) error {
	log := logger.FromContext(ctx)

	// Reject an unknown schema before touching the workbook.
	parser, err := importer.DefaultRegistry().Get(schema)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer f.Close()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	book, err := loadOrNewBook(ctx, store)
	if err != nil {
		return err
	}
	workbook.Scaffold(book, cfg.Sheets)

	act, err := decodeActivity(book, cfg.Sheets)
	if err != nil {
		return err
	}

	res, err := parser.Import(act, f, sourceNote)
	if err != nil {
		return fmt.Errorf("importing %s: %w", csvPath, err)
	}

	book.Set(cfg.Sheets.ActivityBank, workbook.EncodeBank(act.Bank))
	book.Set(cfg.Sheets.ActivityCredit, workbook.EncodeCredit(act.Credit))
	if err := store.Save(ctx, book); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	entry := importlog.Entry{
		Timestamp:  time.Now().UTC(),
		Schema:     res.Schema,
		SourceNote: sourceNote,
		File:       filepath.Base(csvPath),
		Parsed:     res.Parsed,
		Added:      res.Added,
	}
	if err := importlog.Append(cfg.Path(cfg.Import.Log), []importlog.Entry{entry}); err != nil {
		log.Warn().Err(err).Msg("failed to write import log")
	}

	inbox := cfg.Path(cfg.Import.Dir)
	if !keep && importer.InInbox(inbox, csvPath) {
		if err := importer.MarkProcessed(inbox, filepath.Base(csvPath)); err != nil {
			return err
		}
		log.Debug().Str("file", filepath.Base(csvPath)).Msg("moved to processed")
	}

	log.Info().
		Str("schema", string(res.Schema)).
		Int("total", res.Total).
		Msgf("imported %d rows, %d new", res.Parsed, res.Added)

	openWorkbook(ctx, cfg)
	return nil
}

// loadOrNewBook starts an empty book when a file backend has nothing on disk yet.
func loadOrNewBook(ctx context.Context, store workbook.Store) (*workbook.Book, error) {
	book, err := store.Load(ctx)
	if errors.Is(err, os.ErrNotExist) {
		log := logger.FromContext(ctx)
		log.Info().Msg("no workbook yet, creating one")
		return workbook.NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	return book, nil
}

func decodeActivity(book *workbook.Book, names workbook.SheetNames) (*importer.Activity, error) {
	bank, err := workbook.DecodeBank(book.Rows(names.ActivityBank))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", names.ActivityBank, err)
	}
	credit, err := workbook.DecodeCredit(book.Rows(names.ActivityCredit))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", names.ActivityCredit, err)
	}
	return &importer.Activity{Bank: bank, Credit: credit}, nil
}
