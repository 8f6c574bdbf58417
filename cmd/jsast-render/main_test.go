package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spicery/jsast/pkg/render"
)

const tree = `{"type":"Program","sourceType":"module","directives":[],"body":[
	{"type":"ExpressionStatement","expression":{"type":"StringLiteral","value":"x"}}
]}`

func TestRunPipe(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(tree), false, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Equal(t, `"x";`, stdout.String())
	require.Empty(t, stderr.String())
}

func TestRunInteractiveWithoutArgumentsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"only-one.json"}, strings.NewReader(""), true, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Equal(t, render.Usage+"\n", stdout.String())
}

func TestRunMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.js")
	var stdout, stderr bytes.Buffer

	code := run([]string{filepath.Join(dir, "missing.json"), output}, strings.NewReader(""), true, &stdout, &stderr)

	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Error rendering syntax tree")
	require.NoFileExists(t, output)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	output := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(input, []byte(tree), 0o644))
	var stdout, stderr bytes.Buffer

	code := run([]string{input, output}, strings.NewReader(""), true, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, `"x";`, string(data))
}

func TestRunMalformedJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("{nope"), false, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "decoding syntax tree")
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"--version"}, strings.NewReader(""), true, &stdout, &stderr))
	require.Equal(t, "jsast-render version dev\n", stdout.String())
}
