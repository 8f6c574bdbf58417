package fixtures

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spicery/jsast/pkg/parser"
	"github.com/spicery/jsast/pkg/strip"
)

const (
	DefaultTemplateSuffix = ".template.js"
	DefaultFixtureSuffix  = ".ast.json"
)

// DefaultDirectories are the fixture directories of the repository, relative
// to its root.
var DefaultDirectories = []string{
	"tests/fixtures/javascript_flow",
	"tests/fixtures/flow",
}

// Config controls a fixture build.
type Config struct {
	Directories    []string `yaml:"directories,omitempty"`
	TemplateSuffix string   `yaml:"template-suffix,omitempty"`
	FixtureSuffix  string   `yaml:"fixture-suffix,omitempty"`
	// StripKeys are removed from every node before the tree is written.
	StripKeys      []string `yaml:"strip-keys,omitempty"`
	parser.Dialect `yaml:",inline"`
	// Jobs bounds the number of files converted at once.
	Jobs int `yaml:"jobs,omitempty"`
	// KeepGoing attempts every file and reports all failures instead of
	// stopping at the first.
	KeepGoing bool `yaml:"keep-going,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Directories:    append([]string(nil), DefaultDirectories...),
		TemplateSuffix: DefaultTemplateSuffix,
		FixtureSuffix:  DefaultFixtureSuffix,
		StripKeys:      strip.LocationKeys.Keys(),
		Dialect:        parser.DefaultDialect(),
		Jobs:           4,
	}
}

// LoadConfig reads a YAML configuration file. Fields it leaves out keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	config, err := LoadConfigFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

func LoadConfigFromString(yamlContent string) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c Config) Validate() error {
	if len(c.Directories) == 0 {
		return errors.New("no fixture directories configured")
	}
	if c.TemplateSuffix == "" || c.FixtureSuffix == "" {
		return errors.New("template and fixture suffixes must not be empty")
	}
	if c.TemplateSuffix == c.FixtureSuffix {
		return fmt.Errorf("template and fixture suffixes are both %q", c.TemplateSuffix)
	}
	if strings.ContainsAny(c.FixtureSuffix, `/\`) {
		return fmt.Errorf("fixture suffix %q contains a path separator", c.FixtureSuffix)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return c.Dialect.Validate()
}

// Keys is the stripped key set.
func (c Config) Keys() strip.KeySet {
	return strip.NewKeySet(c.StripKeys...)
}
