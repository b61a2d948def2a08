package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Every field mirrors a
// flag; file values act as defaults and explicit flags win.
type Config struct {
	Out         string   `yaml:"out"`
	Base        string   `yaml:"base"`
	Emit        []string `yaml:"emit"`
	Pretty      *bool    `yaml:"pretty"`
	GraphName   string   `yaml:"graph_name"`
	MaxWarnings *int     `yaml:"max_warnings"`
	Dialect     string   `yaml:"dialect"`
	ValidateIR  *bool    `yaml:"validate_ir"`
}

// LoadConfig reads and strictly decodes a config file: unknown keys are
// an error so typos fail loudly instead of being ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
