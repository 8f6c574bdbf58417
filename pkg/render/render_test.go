package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const literalProgram = `{"type":"File","program":{"type":"Program","sourceType":"module","body":[
	{"type":"ExpressionStatement","expression":{"type":"NumericLiteral","value":1,"extra":{"rawValue":1,"raw":"1"}}}
],"directives":[]}}`

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRunPipeWritesSourceToStdout(t *testing.T) {
	var out bytes.Buffer
	err := Run(Options{Stdin: strings.NewReader(literalProgram), Stdout: &out})
	require.NoError(t, err)
	require.Equal(t, "1;", out.String())
}

func TestRunPipeIgnoresArguments(t *testing.T) {
	var out bytes.Buffer
	err := Run(Options{
		Args:   []string{"does-not-exist.json", "out.js"},
		Stdin:  strings.NewReader(literalProgram),
		Stdout: &out,
	})
	require.NoError(t, err)
	require.Equal(t, "1;", out.String())
}

func TestRunPipeRejectsMalformedJSON(t *testing.T) {
	var out bytes.Buffer
	err := Run(Options{Stdin: strings.NewReader(`{"type":`), Stdout: &out})
	require.Error(t, err)
	require.Empty(t, out.String())
}

func TestRunPipeReportsWriteFailure(t *testing.T) {
	err := Run(Options{Stdin: strings.NewReader(literalProgram), Stdout: failingWriter{}})
	require.ErrorContains(t, err, "disk full")
}

func TestRunInteractiveNeedsTwoArguments(t *testing.T) {
	for _, args := range [][]string{nil, {"in.json"}} {
		err := Run(Options{Interactive: true, Args: args})
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
		require.Equal(t, len(args), usage.Got)
	}
}

func TestRunFileMode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	output := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(input, []byte(literalProgram), 0o644))

	require.NoError(t, Run(Options{Interactive: true, Args: []string{input, output}}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "1;", string(data))
}

func TestRunFileModeMissingInputCreatesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.js")

	err := Run(Options{Interactive: true, Args: []string{filepath.Join(dir, "missing.json"), output}})
	require.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(output)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRunFileModeUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(input, []byte(literalProgram), 0o644))

	err := Run(Options{Interactive: true, Args: []string{input, filepath.Join(dir, "no-such-dir", "out.js")}})
	require.Error(t, err)
}

func TestRunFileModeMalformedInputCreatesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	output := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(input, []byte("[1, 2"), 0o644))

	err := Run(Options{Interactive: true, Args: []string{input, output}})
	require.ErrorContains(t, err, "decoding syntax tree")
	_, statErr := os.Stat(output)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}
