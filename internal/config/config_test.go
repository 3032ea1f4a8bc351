package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drama.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{SinkFile}, cfg.Output.Sinks)
	assert.Equal(t, 5, cfg.Offset)
	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Len(t, layout.Locales, 2)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
schema: flags.yaml
scenarios: [scenarios]
locales: ["ja=JP", "en=EN", "zh=CN"]
entry_step: start
output:
  sinks: [file, xlsx]
  workbook: out/drama.xlsx
redis:
  ttl: 10m
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "flags.yaml", cfg.Schema)
	assert.Equal(t, "start", cfg.EntryStep)
	assert.Equal(t, []string{SinkFile, SinkXLSX}, cfg.Output.Sinks)
	assert.Equal(t, "build/drama", cfg.Output.Dir, "unset keys keep defaults")
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "log:\n  level: debug\n")
	t.Setenv("DRAMA_LOG_LEVEL", "warn")
	t.Setenv("DRAMA_OUTPUT_SINKS", "redis,file")
	t.Setenv("DRAMA_REDIS_ADDR", "redis:6379")
	t.Setenv("DRAMA_REJECT_DUPLICATES", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{SinkRedis, SinkFile}, cfg.Output.Sinks)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.RejectDuplicates)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "output:\n  sinks: [s3]\n"))
	assert.ErrorContains(t, err, `unknown sink "s3"`)

	_, err = Load(writeFile(t, "locales: [\"ja=JP\", \"ja=JP\"]\n"))
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Offset, cfg.Offset)
}
