// Package fixtures converts template sources into stripped syntax-tree
// fixtures that live beside them.
package fixtures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/ctxlog"
	"github.com/spicery/jsast/pkg/parser"
	"github.com/spicery/jsast/pkg/strip"
)

// FileError ties a failure to the file or directory it happened on.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Builder regenerates fixtures. It holds no state between runs.
type Builder struct {
	config Config
	keys   strip.KeySet
}

func NewBuilder(config Config) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Builder{config: config, keys: config.Keys()}, nil
}

func (b *Builder) Config() Config {
	return b.config
}

// IsTemplate reports whether a file name carries the template suffix.
func (b *Builder) IsTemplate(name string) bool {
	return strings.HasSuffix(name, b.config.TemplateSuffix)
}

// FixturePath names the fixture written for a template.
func (b *Builder) FixturePath(template string) string {
	return strings.TrimSuffix(template, b.config.TemplateSuffix) + b.config.FixtureSuffix
}

// Templates lists the regular files directly inside dir whose names end in
// the template suffix, in name order. Symbolic links are followed.
func (b *Builder) Templates(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FileError{Path: dir, Err: err}
	}
	logger := ctxlog.FromContext(ctx)
	var templates []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !b.IsTemplate(entry.Name()) {
			logger.Debug("skipping", "path", path)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
		if !info.Mode().IsRegular() {
			logger.Debug("skipping non-regular file", "path", path)
			continue
		}
		templates = append(templates, path)
	}
	return templates, nil
}

// Convert parses template source and returns the stripped tree as JSON
// indented by two spaces.
func (b *Builder) Convert(source string) ([]byte, error) {
	tree, err := parser.Parse(source, b.config.Dialect)
	if err != nil {
		return nil, err
	}
	stripped := strip.Strip(tree, b.keys)
	return []byte(common.MarshalJSON(stripped, "  ")), nil
}

// BuildFile converts one template and writes its fixture. The fixture is
// written to a temporary sibling and renamed into place, so a failure never
// leaves a partial file behind.
func (b *Builder) BuildFile(ctx context.Context, template string) error {
	source, err := os.ReadFile(template)
	if err != nil {
		return &FileError{Path: template, Err: err}
	}
	content, err := b.Convert(string(source))
	if err != nil {
		return &FileError{Path: template, Err: err}
	}
	out := b.FixturePath(template)
	ctxlog.FromContext(ctx).Info("writing", "path", out)
	if err := writeFileAtomic(out, content); err != nil {
		return &FileError{Path: out, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Build regenerates the fixtures of every configured directory.
func (b *Builder) Build(ctx context.Context) error {
	return b.build(ctx, b.config.Directories)
}

// BuildDir regenerates the fixtures of a single directory.
func (b *Builder) BuildDir(ctx context.Context, dir string) error {
	return b.build(ctx, []string{dir})
}

func (b *Builder) build(ctx context.Context, dirs []string) error {
	return b.forEachTemplate(ctx, dirs, b.BuildFile)
}

// Check converts every template in memory and returns the fixtures that are
// missing or differ from what a build would write. Nothing is written.
func (b *Builder) Check(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		stale []string
	)
	err := b.forEachTemplate(ctx, b.config.Directories, func(ctx context.Context, template string) error {
		source, err := os.ReadFile(template)
		if err != nil {
			return &FileError{Path: template, Err: err}
		}
		want, err := b.Convert(string(source))
		if err != nil {
			return &FileError{Path: template, Err: err}
		}
		out := b.FixturePath(template)
		got, err := os.ReadFile(out)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return &FileError{Path: out, Err: err}
		}
		if err != nil || !bytes.Equal(got, want) {
			ctxlog.FromContext(ctx).Debug("stale", "path", out)
			mu.Lock()
			stale = append(stale, out)
			mu.Unlock()
		}
		return nil
	})
	sort.Strings(stale)
	return stale, err
}

// forEachTemplate runs fn on every template of dirs with at most Jobs calls
// in flight. By default the first failure stops files that have not started
// yet and is returned; with KeepGoing every file is attempted and all
// failures are returned joined, in path order.
func (b *Builder) forEachTemplate(ctx context.Context, dirs []string, fn func(context.Context, string) error) error {
	var (
		mu       sync.Mutex
		failures []*FileError
	)
	fail := func(err error) error {
		if !b.config.KeepGoing {
			return err
		}
		var fileErr *FileError
		if !errors.As(err, &fileErr) {
			fileErr = &FileError{Path: "", Err: err}
		}
		mu.Lock()
		failures = append(failures, fileErr)
		mu.Unlock()
		return nil
	}

	var templates []string
	for _, dir := range dirs {
		found, err := b.Templates(ctx, dir)
		if err != nil {
			if err := fail(err); err != nil {
				return err
			}
			continue
		}
		templates = append(templates, found...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Jobs)
	for _, template := range templates {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := fn(gctx, template); err != nil {
				return fail(err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Path < failures[j].Path
	})
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
