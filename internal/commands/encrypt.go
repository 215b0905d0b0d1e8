package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/crypt"
	"github.com/pennywise-dev/pennywise/internal/gitops"
	"github.com/pennywise-dev/pennywise/internal/logger"
)

func newEncryptCommand(opts *rootOptions) *cobra.Command {
	var commit bool

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt the workbook with a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			src, err := localWorkbook(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			return runEncrypt(cmd.Context(), cfg, src, password, commit || cfg.Git.AutoCommit)
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "commit the encrypted workbook to git")

	return cmd
}

func runEncrypt(ctx context.Context, cfg *config.Config, src, password string, commit bool) error {
	log := logger.FromContext(ctx)

	dst := cfg.Path(cfg.Workbook.Encrypted)
	if err := crypt.EncryptFile(src, dst, password); err != nil {
		return err
	}
	log.Info().Str("file", dst).Msg("encrypted workbook")

	if !commit {
		return nil
	}
	if !gitops.IsRepo(cfg.Dir) {
		log.Warn().Str("dir", cfg.Dir).Msg("not a git repository, skipping commit")
		return nil
	}

	rel, err := filepath.Rel(cfg.Dir, dst)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dst, err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(cfg.Dir, "encrypt: Update encrypted workbook", author, rel)
	if err != nil {
		return err
	}
	if hash == "" {
		log.Info().Msg("encrypted workbook unchanged, nothing to commit")
		return nil
	}
	log.Info().Str("commit", hash).Msg("committed encrypted workbook")
	return nil
}

func newDecryptCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt the workbook and open it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			dst, err := localWorkbook(ctx, cfg)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			src := cfg.Path(cfg.Workbook.Encrypted)
			if err := crypt.DecryptFile(src, dst, password); err != nil {
				return err
			}
			log := logger.FromContext(ctx)
			log.Info().Str("file", dst).Msg("decrypted workbook")

			openWorkbook(ctx, cfg)
			return nil
		},
	}
}
