package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchRebuildsChangedTemplate(t *testing.T) {
	dir := t.TempDir()
	b := newTestBuilder(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, 20*time.Millisecond)
	}()

	fixture := filepath.Join(dir, "w.ast.json")
	template := filepath.Join(dir, "w.template.js")
	// The watcher may not be registered yet, so keep touching the template
	// until the fixture shows up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(template, []byte("w;"), 0o644)
		_, err := os.Stat(fixture)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
	cancel()
	require.NoError(t, <-done)
	require.NoFileExists(t, filepath.Join(dir, "ignored.ast.json"))
}

func TestWatchMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	b := newTestBuilder(t, missing)

	err := b.Watch(context.Background(), 0)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	require.Equal(t, missing, fileErr.Path)
}
