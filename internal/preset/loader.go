package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ReadFile parses a preset file into a raw nested mapping. The format is
// chosen by extension: .toml uses TOML, everything else (.yaml, .yml, .json)
// uses YAML. Read and syntax failures are wrapped in *FileError and
// propagated to the caller.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	raw := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("parse toml: %w", err)}
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
		}
	}
	return raw, nil
}

// Load reads and validates a preset file, returning the typed config.
// Parse failures surface as *FileError, schema and override failures as
// ErrPresetInvalid-matching errors.
func Load(path string, strict bool) (*Config, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromMap(raw, strict)
}

// LoadMap reads and validates a preset file and returns its normalized
// plain-mapping form, for consumers that hand the result to a layer working
// with raw mappings.
func LoadMap(path string, strict bool) (map[string]any, error) {
	cfg, err := Load(path, strict)
	if err != nil {
		return nil, err
	}
	return cfg.ToMap(), nil
}
