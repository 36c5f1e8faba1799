// Package mapstyle describes the static style a map surface is built from:
// the sources it can draw from and the layers stacked on top of them.
package mapstyle

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceType identifies what kind of data a source holds.
type SourceType string

const (
	SourceRaster  SourceType = "raster"
	SourceGeoJSON SourceType = "geojson"
)

// LayerType identifies how a layer draws its source.
type LayerType string

const (
	LayerRaster LayerType = "raster"
	LayerCircle LayerType = "circle"
	LayerLine   LayerType = "line"
	LayerFill   LayerType = "fill"
)

// Point is a lon/lat pair in degrees.
type Point struct {
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

// Source is a named data source. Raster sources carry tile URL templates;
// geojson sources carry point features.
type Source struct {
	Type        SourceType `yaml:"type" json:"type"`
	Tiles       []string   `yaml:"tiles,omitempty" json:"tiles,omitempty"`
	TileSize    int        `yaml:"tileSize,omitempty" json:"tileSize,omitempty"`
	Attribution string     `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Points      []Point    `yaml:"points,omitempty" json:"points,omitempty"`
}

// Clone returns a deep copy of s.
func (s Source) Clone() Source {
	out := s
	out.Tiles = append([]string(nil), s.Tiles...)
	out.Points = append([]Point(nil), s.Points...)
	return out
}

// Layer draws one source.
type Layer struct {
	ID     string    `yaml:"id" json:"id"`
	Type   LayerType `yaml:"type" json:"type"`
	Source string    `yaml:"source" json:"source"`
}

// Style is the full description a surface is initialised from.
type Style struct {
	Version int               `yaml:"version" json:"version"`
	Sources map[string]Source `yaml:"sources" json:"sources"`
	Layers  []Layer           `yaml:"layers" json:"layers"`
}

// DefaultTileURL is the OpenStreetMap raster tile endpoint.
const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// Default returns the built-in style: one OSM raster source and one raster
// layer drawing it.
func Default() Style {
	return Style{
		Version: 8,
		Sources: map[string]Source{
			"osm-tiles": {
				Type:        SourceRaster,
				Tiles:       []string{DefaultTileURL},
				TileSize:    256,
				Attribution: "© OpenStreetMap contributors",
			},
		},
		Layers: []Layer{
			{ID: "osm-tiles", Type: LayerRaster, Source: "osm-tiles"},
		},
	}
}

// Clone returns a deep copy of s so surfaces never share mutable state.
func (s Style) Clone() Style {
	out := Style{Version: s.Version, Sources: make(map[string]Source, len(s.Sources))}
	for id, src := range s.Sources {
		out.Sources[id] = src.Clone()
	}
	out.Layers = append([]Layer(nil), s.Layers...)
	return out
}

// Validate checks that every layer references a known source and that
// layer ids are unique.
func (s Style) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Layers))
	for _, l := range s.Layers {
		if l.ID == "" {
			errs = append(errs, errors.New("layer with empty id"))
			continue
		}
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("duplicate layer %q", l.ID))
		}
		seen[l.ID] = true
		if _, ok := s.Sources[l.Source]; !ok {
			errs = append(errs, fmt.Errorf("layer %q references unknown source %q", l.ID, l.Source))
		}
	}
	for id, src := range s.Sources {
		if src.Type == SourceRaster && len(src.Tiles) == 0 {
			errs = append(errs, fmt.Errorf("raster source %q has no tiles", id))
		}
	}
	return errors.Join(errs...)
}

// Parse decodes a style document. YAML is a superset of JSON, so MapLibre
// style JSON files load unchanged.
func Parse(data []byte) (Style, error) {
	var s Style
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("parse style: %w", err)
	}
	if s.Sources == nil {
		s.Sources = map[string]Source{}
	}
	if err := s.Validate(); err != nil {
		return Style{}, fmt.Errorf("invalid style: %w", err)
	}
	return s, nil
}

// Load reads and parses the style file at path. An empty path yields the
// default style.
func Load(path string) (Style, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("read style: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s as YAML.
func Marshal(s Style) ([]byte, error) {
	return yaml.Marshal(s)
}
