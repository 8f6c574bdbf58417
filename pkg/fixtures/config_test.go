package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spicery/jsast/pkg/parser"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	require.Equal(t, []string{"tests/fixtures/javascript_flow", "tests/fixtures/flow"}, config.Directories)
	require.Equal(t, ".template.js", config.TemplateSuffix)
	require.Equal(t, ".ast.json", config.FixtureSuffix)
	require.Equal(t, []string{"end", "loc", "parenStart", "start"}, config.StripKeys)
	require.Equal(t, parser.DefaultDialect(), config.Dialect)
}

func TestLoadConfigFromStringOverridesDefaults(t *testing.T) {
	config, err := LoadConfigFromString(`
directories: [a, b, c]
fixture-suffix: .tree.json
strip-keys: [loc]
source-type: script
plugins: []
jobs: 2
keep-going: true
`)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, config.Directories)
	require.Equal(t, ".template.js", config.TemplateSuffix)
	require.Equal(t, ".tree.json", config.FixtureSuffix)
	require.Equal(t, []string{"loc"}, config.StripKeys)
	require.Equal(t, parser.SourceTypeScript, config.SourceType)
	require.Empty(t, config.Plugins)
	require.Equal(t, 2, config.Jobs)
	require.True(t, config.KeepGoing)
	require.True(t, config.Keys().Contains("loc"))
	require.False(t, config.Keys().Contains("start"))
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"no directories":  "directories: []",
		"same suffixes":   "fixture-suffix: .template.js",
		"zero jobs":       "jobs: 0",
		"unknown plugin":  "plugins: [jsx]",
		"bad source type": "source-type: commonjs",
		"not yaml":        "directories: [",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFromString(text)
			require.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directories: [x]\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, config.Directories)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
