package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/gitops"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/rules"
	"github.com/pennywise-dev/pennywise/internal/workbook"
)

func newInitCommand() *cobra.Command {
	var useGit bool
	var backend string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finance directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, backend, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the scaffold")
	cmd.Flags().StringVar(&backend, "backend", config.BackendXLSX, "workbook backend: xlsx or sqlite")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backend string, useGit bool) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Dir = dir
	switch backend {
	case config.BackendXLSX:
	case config.BackendSQLite:
		cfg.Workbook.Backend = config.BackendSQLite
		cfg.Workbook.Decrypted = "finance.db"
		cfg.Workbook.Encrypted = "finance_encrypted.db"
	default:
		return fmt.Errorf("init supports the %s and %s backends, got %q", config.BackendXLSX, config.BackendSQLite, backend)
	}

	// Create directory structure.
	dirs := []string{
		filepath.Dir(cfg.RulesFile),
		filepath.Dir(cfg.Inflation.Series),
		filepath.Dir(cfg.Import.Log),
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := rules.SaveFile(cfg.Path(cfg.RulesFile), rules.DefaultGroups()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := fmt.Sprintf("%s\n%s/\n.env\n", cfg.Workbook.Decrypted, cfg.Graph.OutputDir)
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	book := workbook.NewBook()
	workbook.Scaffold(book, cfg.Sheets)
	if err := store.Save(ctx, book); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	if useGit {
		if err := gitops.Init(dir, cmd.ErrOrStderr()); err != nil {
			return err
		}
		author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
		hash, err := gitops.Commit(dir, "init: Initialize pennywise", author,
			config.FileName, cfg.RulesFile, ".gitignore", filepath.Join(cfg.Import.Dir, ".gitkeep"))
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		log.Info().Str("commit", hash).Msg("created initial commit")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized pennywise at %s\n", dir)
	return nil
}
