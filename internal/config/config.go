// Package config loads rpn command settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings a configuration file may provide. Unset fields
// keep the values from Default.
type Config struct {
	// Delimiter separates expression tokens; empty splits on whitespace.
	Delimiter string `yaml:"delimiter" json:"delimiter"`

	// Trace enables evaluator step logging.
	Trace bool `yaml:"trace" json:"trace"`

	// Stats prints collected evaluation metrics on exit.
	Stats bool `yaml:"stats" json:"stats"`

	// Precision is the number of significant digits printed for results;
	// -1 prints the shortest exact representation.
	Precision int `yaml:"precision" json:"precision"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{Precision: -1}
}

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data over Default.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, cfg.validate()
}

// FromJSON parses JSON data over Default.
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	if cfg.Precision < -1 {
		return fmt.Errorf("invalid precision %d", cfg.Precision)
	}
	return nil
}
