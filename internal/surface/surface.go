// Package surface implements the map surface a panel renders: a mutable
// registry of sources and layers seeded from a style, a viewport, and a
// one-shot load step whose completion is the surface's readiness signal.
package surface

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"

	"mapdeck/internal/mapstyle"
	"mapdeck/internal/tiles"
)

var (
	ErrExists   = errors.New("already exists")
	ErrNotFound = errors.New("not found")
	ErrInUse    = errors.New("in use by a layer")
	ErrReleased = errors.New("surface released")
)

// Viewport is the initial camera.
type Viewport struct {
	Lon  float64
	Lat  float64
	Zoom int
}

// TileFetcher loads raster tiles. *tiles.Fetcher satisfies it.
type TileFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// LoadResult describes what a Load call managed to fetch.
type LoadResult struct {
	Tile    tiles.Coord
	Rasters map[string]image.Image // source id -> tile under the viewport centre
	Errors  map[string]error       // source id -> fetch failure
}

// Map is one rendered map instance. It is not safe for concurrent
// mutation; Load may run off the event loop because it only reads the
// immutable style snapshot taken at construction.
type Map struct {
	viewport Viewport
	sources  map[string]mapstyle.Source
	layers   []mapstyle.Layer
	rasters  map[string]image.Image
	loaded   bool
	released bool

	// rasterSources is captured at construction so Load never touches the
	// mutable registry.
	rasterSources map[string][]string
}

// New builds a surface from style. The style is copied.
func New(style mapstyle.Style, vp Viewport) *Map {
	s := style.Clone()
	m := &Map{
		viewport:      vp,
		sources:       s.Sources,
		layers:        s.Layers,
		rasters:       make(map[string]image.Image),
		rasterSources: make(map[string][]string),
	}
	if m.sources == nil {
		m.sources = make(map[string]mapstyle.Source)
	}
	for id, src := range m.sources {
		if src.Type == mapstyle.SourceRaster {
			m.rasterSources[id] = append([]string(nil), src.Tiles...)
		}
	}
	return m
}

// Viewport returns the surface's camera.
func (m *Map) Viewport() Viewport { return m.viewport }

// Loaded reports whether ApplyLoad has run.
func (m *Map) Loaded() bool { return m.loaded }

// Released reports whether Release has run.
func (m *Map) Released() bool { return m.released }

// Load fetches whatever the surface needs before it can be considered
// initialised. A nil fetcher skips raster tiles. Per-source tile failures
// are reported in the result rather than failing the load.
func (m *Map) Load(ctx context.Context, f TileFetcher) (LoadResult, error) {
	coord, _, _ := tiles.Locate(m.viewport.Lon, m.viewport.Lat, m.viewport.Zoom)
	res := LoadResult{
		Tile:    coord,
		Rasters: make(map[string]image.Image),
		Errors:  make(map[string]error),
	}
	if f == nil {
		return res, nil
	}
	for id, templates := range m.rasterSources {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if len(templates) == 0 {
			continue
		}
		img, err := f.Fetch(ctx, tiles.URL(templates[0], coord))
		if err != nil {
			res.Errors[id] = err
			continue
		}
		res.Rasters[id] = img
	}
	return res, nil
}

// ApplyLoad installs a load result on the event loop. It returns false if
// the surface was released in the meantime or already loaded.
func (m *Map) ApplyLoad(res LoadResult) bool {
	if m.released || m.loaded {
		return false
	}
	for id, img := range res.Rasters {
		m.rasters[id] = img
	}
	m.loaded = true
	return true
}

// Release drops every source, layer and raster. Later mutations fail with
// ErrReleased.
func (m *Map) Release() {
	m.released = true
	m.sources = map[string]mapstyle.Source{}
	m.layers = nil
	m.rasters = map[string]image.Image{}
}

// AddSource registers a new source.
func (m *Map) AddSource(id string, src mapstyle.Source) error {
	if m.released {
		return ErrReleased
	}
	if _, ok := m.sources[id]; ok {
		return fmt.Errorf("source %q: %w", id, ErrExists)
	}
	m.sources[id] = src.Clone()
	return nil
}

// RemoveSource deletes a source. It fails if a layer still draws it.
func (m *Map) RemoveSource(id string) error {
	if m.released {
		return ErrReleased
	}
	if _, ok := m.sources[id]; !ok {
		return fmt.Errorf("source %q: %w", id, ErrNotFound)
	}
	for _, l := range m.layers {
		if l.Source == id {
			return fmt.Errorf("source %q used by layer %q: %w", id, l.ID, ErrInUse)
		}
	}
	delete(m.sources, id)
	delete(m.rasters, id)
	return nil
}

// HasSource reports whether a source is registered.
func (m *Map) HasSource(id string) bool {
	_, ok := m.sources[id]
	return ok
}

// Source returns a copy of the named source.
func (m *Map) Source(id string) (mapstyle.Source, bool) {
	src, ok := m.sources[id]
	if !ok {
		return mapstyle.Source{}, false
	}
	return src.Clone(), true
}

// UpdateSource replaces the named source with fn's edit of a copy.
func (m *Map) UpdateSource(id string, fn func(*mapstyle.Source)) error {
	if m.released {
		return ErrReleased
	}
	src, ok := m.sources[id]
	if !ok {
		return fmt.Errorf("source %q: %w", id, ErrNotFound)
	}
	src = src.Clone()
	fn(&src)
	m.sources[id] = src
	return nil
}

// Sources returns the registered source ids, sorted.
func (m *Map) Sources() []string {
	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddLayer appends a layer on top of the stack.
func (m *Map) AddLayer(l mapstyle.Layer) error {
	if m.released {
		return ErrReleased
	}
	if m.HasLayer(l.ID) {
		return fmt.Errorf("layer %q: %w", l.ID, ErrExists)
	}
	if !m.HasSource(l.Source) {
		return fmt.Errorf("layer %q source %q: %w", l.ID, l.Source, ErrNotFound)
	}
	m.layers = append(m.layers, l)
	return nil
}

// RemoveLayer deletes a layer.
func (m *Map) RemoveLayer(id string) error {
	if m.released {
		return ErrReleased
	}
	idx := slices.IndexFunc(m.layers, func(l mapstyle.Layer) bool { return l.ID == id })
	if idx < 0 {
		return fmt.Errorf("layer %q: %w", id, ErrNotFound)
	}
	m.layers = slices.Delete(m.layers, idx, idx+1)
	return nil
}

// HasLayer reports whether a layer is registered.
func (m *Map) HasLayer(id string) bool {
	return slices.ContainsFunc(m.layers, func(l mapstyle.Layer) bool { return l.ID == id })
}

// Layers returns a copy of the layer stack, bottom first.
func (m *Map) Layers() []mapstyle.Layer {
	return slices.Clone(m.layers)
}
