package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunBuildsFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.template.js"), []byte("a;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644))
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--dir", dir}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.FileExists(t, filepath.Join(dir, "a.ast.json"))
	require.NoFileExists(t, filepath.Join(dir, "README.ast.json"))
	require.Contains(t, stdout.String(), "msg=writing")
	require.Contains(t, stdout.String(), filepath.Join(dir, "a.ast.json"))
}

func TestRunReportsParseFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.template.js"), []byte("a b"), 0o644))
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--dir", dir}, &stdout, &stderr)

	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "Unexpected token, expected ; (1:2)")
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.template.js"), []byte("a;"), 0o644))
	var stdout, stderr bytes.Buffer

	require.Equal(t, 1, run(context.Background(), []string{"--check", "-d", dir}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "stale fixture: "+filepath.Join(dir, "a.ast.json"))
	require.NoFileExists(t, filepath.Join(dir, "a.ast.json"))

	require.Equal(t, 0, run(context.Background(), []string{"-d", dir}, &stdout, &stderr))
	stderr.Reset()
	require.Equal(t, 0, run(context.Background(), []string{"--check", "-d", dir}, &stdout, &stderr))
	require.Empty(t, stderr.String())
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.src.js"), []byte("a;"), 0o644))
	config := filepath.Join(t.TempDir(), "fixtures.yaml")
	yaml := "directories: [" + dir + "]\ntemplate-suffix: .src.js\nfixture-suffix: .tree.json\n"
	require.NoError(t, os.WriteFile(config, []byte(yaml), 0o644))
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--config", config}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	require.FileExists(t, filepath.Join(dir, "a.tree.json"))
}

func TestRunRejectsBadJobs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run(context.Background(), []string{"--jobs", "0"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "jobs must be at least 1")
}
