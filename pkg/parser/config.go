package parser

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	SourceTypeModule = "module"
	SourceTypeScript = "script"

	PluginFlow = "flow"
)

var knownPlugins = []string{PluginFlow}

// Dialect selects the grammar accepted by the parser: the source type and
// the syntax plugins to enable.
type Dialect struct {
	SourceType string   `yaml:"source-type,omitempty"`
	Plugins    []string `yaml:"plugins,omitempty"`
}

// DefaultDialect is the grammar fixtures are built with: ES modules with
// Flow annotations.
func DefaultDialect() Dialect {
	return Dialect{SourceType: SourceTypeModule, Plugins: []string{PluginFlow}}
}

func (d Dialect) HasPlugin(name string) bool {
	return slices.Contains(d.Plugins, name)
}

func (d Dialect) Validate() error {
	switch d.SourceType {
	case SourceTypeModule, SourceTypeScript:
	default:
		return fmt.Errorf("unknown source type %q (expected %q or %q)", d.SourceType, SourceTypeModule, SourceTypeScript)
	}
	for _, plugin := range d.Plugins {
		if !slices.Contains(knownPlugins, plugin) {
			return fmt.Errorf("unknown parser plugin %q", plugin)
		}
	}
	return nil
}

// LoadDialect reads a dialect from a YAML file. Missing fields take their
// values from DefaultDialect.
func LoadDialect(filename string) (*Dialect, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadDialectFromString(string(data))
}

func LoadDialectFromString(text string) (*Dialect, error) {
	dialect := DefaultDialect()
	if err := yaml.Unmarshal([]byte(text), &dialect); err != nil {
		return nil, err
	}
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	return &dialect, nil
}
