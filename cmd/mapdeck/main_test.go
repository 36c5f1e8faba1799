package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdeck/internal/mapstyle"
)

func executeStyle(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"style"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStyleCommand_Default(t *testing.T) {
	out, err := executeStyle(t)
	require.NoError(t, err)

	style, err := mapstyle.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, mapstyle.Default(), style)
}

func TestStyleCommand_StyleFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	doc := `version: 8
sources:
  base:
    type: raster
    tiles: ["http://localhost/{z}/{x}/{y}.png"]
    tileSize: 256
layers:
  - id: base
    type: raster
    source: base
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := executeStyle(t, "--style", path)
	require.NoError(t, err)
	style, err := mapstyle.Parse([]byte(out))
	require.NoError(t, err)
	assert.Contains(t, style.Sources, "base")
	assert.Len(t, style.Layers, 1)
}

func TestStyleCommand_MissingConfig(t *testing.T) {
	_, err := executeStyle(t, "--config", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestStyleCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	stylePath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(stylePath, []byte("version: 8\nsources: {}\nlayers: []\n"), 0o644))
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[map]\nstyle_file = \""+stylePath+"\"\n"), 0o644))

	out, err := executeStyle(t, "--config", cfgPath)
	require.NoError(t, err)
	style, err := mapstyle.Parse([]byte(out))
	require.NoError(t, err)
	assert.Empty(t, style.Layers)
}
