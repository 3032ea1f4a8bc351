package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ErrKey(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, WithOutput(&buf))

	logger.Warn("Flag schema violation", "error", errors.New("boom"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(slog.LevelDebug, WithOutput(&buf), WithJSON()).Debug("x", "graph", "guide")
	assert.Contains(t, buf.String(), `"graph":"guide"`)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drama.log")
	var console bytes.Buffer

	logger, closer := NewWithCloser(slog.LevelInfo, WithOutput(&console), WithFile(path))
	logger.With("graph", "guide").Info("Graph finalized", "rows", 4)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Graph finalized"`)
	assert.Contains(t, string(data), `"graph":"guide"`)
	assert.Contains(t, console.String(), "Graph finalized")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
