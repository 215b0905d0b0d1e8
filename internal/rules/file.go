package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a rule table.
type File struct {
	Groups []Group `yaml:"groups"`
}

// LoadFile reads rule groups from a YAML file.
func LoadFile(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return f.Groups, nil
}

// SaveFile writes rule groups to a YAML file.
func SaveFile(path string, groups []Group) error {
	data, err := yaml.Marshal(File{Groups: groups})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
