package mapstyle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 8, s.Version)
	require.Len(t, s.Layers, 1)
	assert.Equal(t, "osm-tiles", s.Layers[0].Source)
	src := s.Sources["osm-tiles"]
	assert.Equal(t, SourceRaster, src.Type)
	assert.Equal(t, []string{DefaultTileURL}, src.Tiles)
	assert.Equal(t, 256, src.TileSize)
}

func TestClone_DoesNotShareState(t *testing.T) {
	a := Default()
	b := a.Clone()
	src := b.Sources["osm-tiles"]
	src.Tiles[0] = "changed"
	b.Sources["osm-tiles"] = src
	b.Layers[0].ID = "changed"

	assert.Equal(t, DefaultTileURL, a.Sources["osm-tiles"].Tiles[0])
	assert.Equal(t, "osm-tiles", a.Layers[0].ID)
}

func TestParse_MapLibreJSON(t *testing.T) {
	doc := `{
  "version": 8,
  "sources": {
    "base": {"type": "raster", "tiles": ["http://example.test/{z}/{x}/{y}.png"], "tileSize": 256}
  },
  "layers": [{"id": "base", "type": "raster", "source": "base"}]
}`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.test/{z}/{x}/{y}.png"}, s.Sources["base"].Tiles)
	assert.Equal(t, LayerRaster, s.Layers[0].Type)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		style Style
	}{
		{
			name: "unknown source",
			style: Style{Sources: map[string]Source{}, Layers: []Layer{
				{ID: "a", Type: LayerRaster, Source: "missing"},
			}},
		},
		{
			name: "duplicate layer",
			style: Style{Sources: map[string]Source{"s": {Type: SourceGeoJSON}}, Layers: []Layer{
				{ID: "a", Type: LayerCircle, Source: "s"},
				{ID: "a", Type: LayerCircle, Source: "s"},
			}},
		},
		{
			name:  "raster without tiles",
			style: Style{Sources: map[string]Source{"s": {Type: SourceRaster}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.style.Validate())
		})
	}
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_RoundTripsThroughMarshal(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
