package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pennywise-dev/pennywise/internal/viewer"
	"github.com/pennywise-dev/pennywise/internal/workbook"
)

// FileName is the default config file name.
const FileName = "pennywise.yaml"

// EnvPrefix prefixes every environment override, e.g. PENNYWISE_WORKBOOK_BACKEND.
const EnvPrefix = "PENNYWISE_"

// Workbook backends.
const (
	BackendXLSX    = "xlsx"
	BackendSQLite  = "sqlite"
	BackendGSheets = "gsheets"
)

// Config represents the top-level pennywise.yaml configuration.
type Config struct {
	Workbook  WorkbookConfig      `yaml:"workbook" envPrefix:"WORKBOOK_"`
	Sheets    workbook.SheetNames `yaml:"sheets" envPrefix:"SHEET_"`
	RulesFile string              `yaml:"rules_file" env:"RULES_FILE"`
	Inflation InflationConfig     `yaml:"inflation" envPrefix:"INFLATION_"`
	Viewer    ViewerConfig        `yaml:"viewer" envPrefix:"VIEWER_"`
	Graph     GraphConfig         `yaml:"graph" envPrefix:"GRAPH_"`
	Import    ImportConfig        `yaml:"import" envPrefix:"IMPORT_"`
	Git       GitConfig           `yaml:"git" envPrefix:"GIT_"`

	// Dir is the directory holding the config file. Relative paths resolve
	// against it.
	Dir string `yaml:"-"`
}

// WorkbookConfig locates the finance workbook.
type WorkbookConfig struct {
	Backend         string `yaml:"backend" env:"BACKEND"`
	Decrypted       string `yaml:"decrypted" env:"DECRYPTED"`
	Encrypted       string `yaml:"encrypted" env:"ENCRYPTED"`
	SpreadsheetID   string `yaml:"spreadsheet_id,omitempty" env:"SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file,omitempty" env:"CREDENTIALS_FILE"`
}

// InflationConfig points at the monthly CPI series.
type InflationConfig struct {
	Series   string `yaml:"series" env:"SERIES"`
	Disabled bool   `yaml:"disabled" env:"DISABLED"`
}

// ViewerConfig controls opening the workbook after a command.
type ViewerConfig struct {
	Command  string `yaml:"command" env:"COMMAND"`
	Disabled bool   `yaml:"disabled" env:"DISABLED"`
}

// GraphConfig controls chart output.
type GraphConfig struct {
	OutputDir string  `yaml:"output_dir" env:"OUTPUT_DIR"`
	StdDevs   float64 `yaml:"std_devs" env:"STD_DEVS"`
}

// ImportConfig locates the import inbox and audit log.
type ImportConfig struct {
	Dir string `yaml:"dir" env:"DIR"`
	Log string `yaml:"log" env:"LOG"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name" env:"AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" env:"AUTHOR_EMAIL"`
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Workbook: WorkbookConfig{
			Backend:   BackendXLSX,
			Decrypted: "finance.xlsx",
			Encrypted: "finance_encrypted.xlsx",
		},
		Sheets:    workbook.DefaultSheetNames(),
		RulesFile: filepath.Join("rules", "categorization-rules.yaml"),
		Inflation: InflationConfig{
			Series: filepath.Join("data", "CPIAUCSL.csv"),
		},
		Viewer: ViewerConfig{
			Command: viewer.DefaultCommand,
		},
		Graph: GraphConfig{
			OutputDir: "graphs",
			StdDevs:   5,
		},
		Import: ImportConfig{
			Dir: "import",
			Log: filepath.Join("logs", "import-log.csv"),
		},
		Git: GitConfig{
			AuthorName:  "Pennywise",
			AuthorEmail: "pennywise@localhost",
		},
	}
}

// Load reads a pennywise.yaml file from disk, fills unset fields from
// Default, then applies PENNYWISE_* environment overrides. A .env file next
// to the config is loaded first when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)

	dotenv := filepath.Join(cfg.Dir, ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotenv, err)
	}
	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults with
// environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	cfg = Default()
	cfg.Dir = filepath.Dir(path)
	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. A nil environ reads
// the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.Parse(cfg, opts); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Validate checks the settings a command cannot run without.
func (c *Config) Validate() error {
	switch c.Workbook.Backend {
	case BackendXLSX, BackendSQLite:
		if c.Workbook.Decrypted == "" {
			return errors.New("workbook.decrypted must be set")
		}
	case BackendGSheets:
		if c.Workbook.SpreadsheetID == "" {
			return errors.New("workbook.spreadsheet_id must be set for the gsheets backend")
		}
	default:
		return fmt.Errorf("unknown workbook backend %q: want %s, %s or %s",
			c.Workbook.Backend, BackendXLSX, BackendSQLite, BackendGSheets)
	}
	if c.Graph.StdDevs <= 0 {
		return fmt.Errorf("graph.std_devs must be positive, got %g", c.Graph.StdDevs)
	}
	return nil
}
