package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spicery/jsast/pkg/codegen"
	"github.com/spicery/jsast/pkg/ctxlog"
	"github.com/spicery/jsast/pkg/parser"
	"github.com/spicery/jsast/pkg/render"
)

func newTestBuilder(t *testing.T, dirs ...string) *Builder {
	t.Helper()
	config := DefaultConfig()
	config.Directories = dirs
	config.Jobs = 1
	b, err := NewBuilder(config)
	require.NoError(t, err)
	return b
}

func logContext(buf *bytes.Buffer) context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.New("info", "text", buf))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBuildDirWritesOneFixturePerTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.template.js"), "1;\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a template")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.template.js"), 0o755))

	var logs bytes.Buffer
	b := newTestBuilder(t, dir)
	require.NoError(t, b.BuildDir(logContext(&logs), dir))

	require.ElementsMatch(t, []string{"one.template.js", "notes.txt", "nested.template.js", "one.ast.json"}, listDir(t, dir))

	fixture := filepath.Join(dir, "one.ast.json")
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	require.True(t, json.Valid(data))
	require.True(t, strings.HasPrefix(string(data), "{\n  \"type\": \"File\",\n  \"program\": {\n    \"type\": \"Program\","))
	for _, key := range []string{`"loc"`, `"start"`, `"end"`} {
		require.NotContains(t, string(data), key)
	}
	require.Contains(t, string(data), `"type": "NumericLiteral"`)

	require.Contains(t, logs.String(), "msg=writing")
	require.Contains(t, logs.String(), "path="+fixture)
}

func TestBuildConvertsTemplateNamedOnlyBySuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".template.js"), "1;\n")

	b := newTestBuilder(t, dir)
	require.NoError(t, b.Build(context.Background()))
	require.FileExists(t, filepath.Join(dir, ".ast.json"))
}

func TestConvertOverflowingNumberIsJSON(t *testing.T) {
	b := newTestBuilder(t, t.TempDir())
	fixture, err := b.Convert("x = 1e400;\n")
	require.NoError(t, err)
	require.True(t, json.Valid(fixture), string(fixture))
	require.Contains(t, string(fixture), `"value": null`)
	require.Contains(t, string(fixture), `"raw": "1e400"`)

	code, err := render.Render(bytes.NewReader(fixture), codegen.Options{})
	require.NoError(t, err)
	require.Equal(t, "x = 1e400;", code)
}

func TestBuildOverwritesExistingFixture(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.template.js"), "x;\n")
	writeFile(t, filepath.Join(dir, "a.ast.json"), "stale")

	b := newTestBuilder(t, dir)
	require.NoError(t, b.Build(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "a.ast.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"name": "x"`)
}

func TestBuildIsStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.template.js"), "// @flow\nexport class A {\n  v: ?number;\n}\n")
	b := newTestBuilder(t, dir)

	require.NoError(t, b.Build(context.Background()))
	first, err := os.ReadFile(filepath.Join(dir, "a.ast.json"))
	require.NoError(t, err)
	require.NoError(t, b.Build(context.Background()))
	second, err := os.ReadFile(filepath.Join(dir, "a.ast.json"))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestBuildMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	b := newTestBuilder(t, missing)

	err := b.Build(context.Background())
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	require.Equal(t, missing, fileErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildFirstErrorStopsRemainingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_bad.template.js"), "a b")
	writeFile(t, filepath.Join(dir, "b_good.template.js"), "1;")

	b := newTestBuilder(t, dir)
	err := b.Build(context.Background())

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	require.Equal(t, filepath.Join(dir, "a_bad.template.js"), fileErr.Path)
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.NoFileExists(t, filepath.Join(dir, "a_bad.ast.json"))
	require.NoFileExists(t, filepath.Join(dir, "b_good.ast.json"))
}

func TestBuildKeepGoingReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")
	writeFile(t, filepath.Join(dir, "a_bad.template.js"), "a b")
	writeFile(t, filepath.Join(dir, "b_good.template.js"), "1;")
	writeFile(t, filepath.Join(dir, "c_bad.template.js"), "const x;")

	config := DefaultConfig()
	config.Directories = []string{missing, dir}
	config.KeepGoing = true
	b, err := NewBuilder(config)
	require.NoError(t, err)

	err = b.Build(context.Background())
	require.Error(t, err)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	var paths []string
	for _, e := range joined.Unwrap() {
		var fileErr *FileError
		require.True(t, errors.As(e, &fileErr))
		paths = append(paths, fileErr.Path)
	}
	want := []string{
		filepath.Join(dir, "a_bad.template.js"),
		filepath.Join(dir, "c_bad.template.js"),
		missing,
	}
	sort.Strings(want)
	require.Equal(t, want, paths)
	require.FileExists(t, filepath.Join(dir, "b_good.ast.json"))
}

func TestBuildFailedWriteLeavesNoPartialFixture(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "a.template.js")
	writeFile(t, template, "1;")
	// A directory in the fixture's place makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.ast.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ast.json", "keep"), nil, 0o644))

	b := newTestBuilder(t, dir)
	err := b.Build(context.Background())

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	require.Equal(t, filepath.Join(dir, "a.ast.json"), fileErr.Path)
	require.ElementsMatch(t, []string{"a.template.js", "a.ast.json"}, listDir(t, dir))
}

func TestCheckReportsStaleFixtures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.template.js"), "a;")
	writeFile(t, filepath.Join(dir, "b.template.js"), "b;")
	b := newTestBuilder(t, dir)

	stale, err := b.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.ast.json"), filepath.Join(dir, "b.ast.json")}, stale)
	require.ElementsMatch(t, []string{"a.template.js", "b.template.js"}, listDir(t, dir))

	require.NoError(t, b.Build(context.Background()))
	stale, err = b.Check(context.Background())
	require.NoError(t, err)
	require.Empty(t, stale)

	writeFile(t, filepath.Join(dir, "b.template.js"), "c;")
	stale, err = b.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "b.ast.json")}, stale)
}

// A fixture rendered back to source and rebuilt gives the same fixture.
func TestFixturesSurviveRendering(t *testing.T) {
	paths, err := filepath.Glob("../../tests/fixtures/*/*.template.js")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	b := newTestBuilder(t, t.TempDir())

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			source, err := os.ReadFile(path)
			require.NoError(t, err)
			fixture, err := b.Convert(string(source))
			require.NoError(t, err)

			code, err := render.Render(bytes.NewReader(fixture), codegen.Options{})
			require.NoError(t, err)
			again, err := b.Convert(code)
			require.NoError(t, err, code)
			require.Equal(t, string(fixture), string(again))
		})
	}
}
