package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPrintsStrippedJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("x;"), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.True(t, strings.HasPrefix(stdout.String(), "{\n  \"type\": \"File\",\n"))
	require.Contains(t, stdout.String(), `"name": "x"`)
	require.NotContains(t, stdout.String(), `"loc"`)
}

func TestRunKeepsLocationsWithoutStrip(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--strip=false"}, strings.NewReader("x;"), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), `"loc"`)
}

func TestRunReadsInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("type T = number;"), 0o644))
	var stdout, stderr bytes.Buffer

	code := run([]string{"-i", path, "-f", "YAML"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "type: TypeAlias")
}

func TestRunScriptRejectsImport(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--source-type", "script"}, strings.NewReader(`import a from "a";`), &stdout, &stderr)

	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Error parsing input")
}

func TestRunUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run([]string{"-f", "XML"}, strings.NewReader("x;"), &stdout, &stderr))
	require.Contains(t, stderr.String(), "unknown format: XML")
}

func TestRunDialectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source-type: script\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--dialect", path}, strings.NewReader(`import a from "a";`), &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Error parsing input")

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"--dialect", path, "--source-type", "module"}, strings.NewReader(`import a from "a";`), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), `"ImportDeclaration"`)
}

func TestRunBadDialectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins: [jsx]\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run([]string{"-d", path}, strings.NewReader("x;"), &stdout, &stderr))
	require.Contains(t, stderr.String(), `unknown parser plugin "jsx"`)
}
