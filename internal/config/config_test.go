package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/arcmcp/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arcmcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, render.DefaultFrame(), cfg.Canvas)
	assert.Equal(t, "mcp___", cfg.ToolPrefix)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
canvas:
  width: 640
  pixels_per_unit: 40
log:
  level: debug
http:
  addr: "127.0.0.1:9090"
  read_timeout: 2s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640.0, cfg.Canvas.Width)
	assert.Equal(t, 480.0, cfg.Canvas.Height)
	assert.Equal(t, 40.0, cfg.Canvas.PixelsPerUnit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.HTTP.Compression)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "canvas:\n  margin: 400\n"))
	assert.ErrorContains(t, err, "canvas")

	_, err = Load(writeConfig(t, "log:\n  output: syslog\n"))
	assert.ErrorContains(t, err, "log output")

	_, err = Load(writeConfig(t, "log: [unclosed"))
	assert.ErrorContains(t, err, "parse")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "tool_prefix: arc_\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, "arc_", cfg.ToolPrefix)

	cfg, err = LoadFromEnv(writeConfig(t, "tool_prefix: other_\n"))
	require.NoError(t, err)
	assert.Equal(t, "other_", cfg.ToolPrefix)
}

func TestUpdate(t *testing.T) {
	orig := Current()
	t.Cleanup(func() { current = orig })

	bad := DefaultConfig()
	bad.HTTP.Addr = ""
	assert.Error(t, Update(bad))
	assert.Same(t, orig, Current())

	good := DefaultConfig()
	good.ToolPrefix = ""
	require.NoError(t, Update(good))
	assert.Same(t, good, Current())
}
