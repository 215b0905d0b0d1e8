package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/inflation"
	"github.com/pennywise-dev/pennywise/internal/logger"
	"github.com/pennywise-dev/pennywise/internal/rules"
	"github.com/pennywise-dev/pennywise/internal/viewer"
	"github.com/pennywise-dev/pennywise/internal/workbook"
	"github.com/pennywise-dev/pennywise/internal/workbook/gsheets"
	"github.com/pennywise-dev/pennywise/internal/workbook/sqlite"
	"github.com/pennywise-dev/pennywise/internal/workbook/xlsx"
)

// PasswordEnv supplies the workbook password without a prompt.
const PasswordEnv = "PENNYWISE_PASSWORD"

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", opts.configPath, err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (workbook.Store, error) {
	switch cfg.Workbook.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.Path(cfg.Workbook.Decrypted)), nil
	case config.BackendGSheets:
		return gsheets.New(ctx, cfg.Workbook.SpreadsheetID, cfg.Path(cfg.Workbook.CredentialsFile))
	default:
		return xlsx.New(cfg.Path(cfg.Workbook.Decrypted)), nil
	}
}

// localWorkbook returns the decrypted workbook path for file backends.
func localWorkbook(ctx context.Context, cfg *config.Config) (string, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return "", err
	}
	fs, ok := store.(workbook.FileStore)
	if !ok {
		return "", fmt.Errorf("%s backend: %w", cfg.Workbook.Backend, workbook.ErrNoLocalFile)
	}
	return fs.Path(), nil
}

func loadRules(ctx context.Context, cfg *config.Config) (*rules.Table, error) {
	log := logger.FromContext(ctx)

	groups := rules.DefaultGroups()
	path := cfg.Path(cfg.RulesFile)
	if _, err := os.Stat(path); err == nil {
		groups, err = rules.LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", path).Msg("using rules file")
	} else {
		log.Debug().Msg("using built-in rules")
	}

	table, err := rules.Compile(groups)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	for _, d := range table.Duplicates() {
		log.Debug().
			Str("pattern", d.Pattern).
			Str("first_group", d.FirstGroup).
			Str("last_group", d.LastGroup).
			Str("label", string(d.Label)).
			Msg("duplicate pattern, last label wins")
	}
	return table, nil
}

func loadIndex(ctx context.Context, cfg *config.Config) (inflation.Index, error) {
	if cfg.Inflation.Disabled {
		return inflation.Identity{}, nil
	}
	path := cfg.Path(cfg.Inflation.Series)
	series, err := inflation.LoadSeriesFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log := logger.FromContext(ctx)
		log.Warn().Str("file", path).
			Msg("no CPI series, amounts are not adjusted (run `pennywise cpi update`)")
		return inflation.Identity{}, nil
	}
	if err != nil {
		return nil, err
	}
	return series, nil
}

func newViewer(cfg *config.Config) viewer.Viewer {
	if cfg.Viewer.Disabled || cfg.Workbook.Backend == config.BackendGSheets {
		return viewer.Noop{}
	}
	return viewer.New(cfg.Viewer.Command)
}

func openWorkbook(ctx context.Context, cfg *config.Config) {
	path := cfg.Path(cfg.Workbook.Decrypted)
	if err := newViewer(cfg).Open(path); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("could not open workbook viewer")
	}
}

// readPassword takes the password from PENNYWISE_PASSWORD, a terminal prompt
// without echo, or the first line of stdin, in that order.
func readPassword(cmd *cobra.Command) (string, error) {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		return pw, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Enter password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}
