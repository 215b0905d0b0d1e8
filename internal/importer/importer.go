package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// ErrUnknownSchema is returned for a schema other than bank or credit.
var ErrUnknownSchema = errors.New("unknown schema")

// Activity holds the activity tables, one per schema.
type Activity struct {
	Bank   []model.BankRecord
	Credit []model.CreditRecord
}

// Result summarises one import.
type Result struct {
	Schema model.Schema
	Parsed int // rows read from the CSV
	Added  int // rows not already present in the activity table
	Total  int // rows in the activity table after the merge
}

// Parser reads one CSV schema and merges it into the matching activity table.
type Parser interface {
	Schema() model.Schema
	Columns() []string
	Import(act *Activity, r io.Reader, sourceNote string) (Result, error)
}

// Registry holds parsers by schema.
type Registry struct {
	parsers map[model.Schema]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[model.Schema]Parser)}
}

// Register adds a parser. Panics on duplicate schema.
func (r *Registry) Register(p Parser) {
	key := p.Schema()
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser schema: " + string(key))
	}
	r.parsers[key] = p
}

// Get returns the parser for schema, matched case-insensitively.
func (r *Registry) Get(schema string) (Parser, error) {
	p, ok := r.parsers[model.Schema(strings.ToLower(strings.TrimSpace(schema)))]
	if !ok {
		return nil, fmt.Errorf("%w %q: want %s or %s", ErrUnknownSchema, schema, model.SchemaBank, model.SchemaCredit)
	}
	return p, nil
}

// DefaultRegistry returns a registry with the bank and credit parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BankParser{})
	r.Register(&CreditParser{})
	return r
}

// Import parses r with the parser for schema and merges the rows into act.
func Import(act *Activity, schema string, r io.Reader, sourceNote string) (Result, error) {
	p, err := DefaultRegistry().Get(schema)
	if err != nil {
		return Result{}, err
	}
	return p.Import(act, r, sourceNote)
}

// processedDir is the inbox subdirectory for imported CSVs.
const processedDir = "processed"

// FileInfo describes a CSV file waiting in the import inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns CSV files directly inside inbox.
func Scan(inbox string) ([]FileInfo, error) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(inbox, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// InInbox reports whether path is a file directly inside inbox.
func InInbox(inbox, path string) bool {
	absInbox, err := filepath.Abs(inbox)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(absPath) == absInbox
}

// MarkProcessed moves a file from inbox to inbox/processed/.
func MarkProcessed(inbox, fileName string) error {
	src := filepath.Join(inbox, fileName)
	dstDir := filepath.Join(inbox, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
