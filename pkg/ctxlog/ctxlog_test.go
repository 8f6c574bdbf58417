package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContextReturnsEmbeddedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "text", &buf)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("writing", "path", "a.ast.json")

	require.Same(t, logger, FromContext(ctx))
	require.Contains(t, buf.String(), "msg=writing")
	require.Contains(t, buf.String(), "path=a.ast.json")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestNewLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "n", 1)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"n":1`)
}
