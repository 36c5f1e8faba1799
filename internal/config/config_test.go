package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 51.0, c.Map.Latitude)
	assert.Equal(t, 5, c.Map.Zoom)
	assert.Equal(t, 10.0, c.Map.LongitudeSpread)
	assert.True(t, c.Tiles.Enabled)
	assert.Equal(t, 10*time.Second, c.Tiles.Timeout)
	assert.True(t, c.Panel.PluginEnabled)
	assert.True(t, c.Panel.RemoveSources)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, filepath.Join("/tmp/state", "mapdeck", "mapdeck.log"), c.Log.File)
	assert.Equal(t, "mapdeck", c.Otel.ServiceName)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[map]
zoom = 7
longitude_spread = 2.5

[panel]
remove_sources = false

[tiles]
timeout = "3s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MAPDECK_TILES_ENABLED", "false")

	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Map.Zoom)
	assert.Equal(t, 2.5, c.Map.LongitudeSpread)
	assert.False(t, c.Panel.RemoveSources)
	assert.True(t, c.Panel.PluginEnabled)
	assert.False(t, c.Tiles.Enabled)
	assert.Equal(t, 3*time.Second, c.Tiles.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"latitude", func(c *Config) { c.Map.Latitude = 89 }, true},
		{"zoom", func(c *Config) { c.Map.Zoom = 30 }, true},
		{"spread", func(c *Config) { c.Map.LongitudeSpread = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Map: MapConfig{Latitude: 51, Zoom: 5, LongitudeSpread: 10}}
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
