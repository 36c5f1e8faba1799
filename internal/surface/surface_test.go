package surface

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdeck/internal/mapstyle"
)

func testViewport() Viewport {
	return Viewport{Lon: 0, Lat: 51, Zoom: 5}
}

type fakeFetcher struct {
	urls []string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (image.Image, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	return img, nil
}

func TestNew_CopiesStyle(t *testing.T) {
	style := mapstyle.Default()
	m := New(style, testViewport())
	require.NoError(t, m.RemoveLayer("osm-tiles"))
	require.NoError(t, m.RemoveSource("osm-tiles"))

	assert.Len(t, style.Layers, 1, "style must not be mutated through the surface")
	assert.Contains(t, style.Sources, "osm-tiles")
}

func TestSourcesAndLayers(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())

	err := m.AddSource("osm-tiles", mapstyle.Source{Type: mapstyle.SourceGeoJSON})
	assert.True(t, errors.Is(err, ErrExists))

	err = m.AddLayer(mapstyle.Layer{ID: "pts", Type: mapstyle.LayerCircle, Source: "pts"})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, m.AddSource("pts", mapstyle.Source{Type: mapstyle.SourceGeoJSON}))
	require.NoError(t, m.AddLayer(mapstyle.Layer{ID: "pts", Type: mapstyle.LayerCircle, Source: "pts"}))
	assert.True(t, errors.Is(m.AddLayer(mapstyle.Layer{ID: "pts", Type: mapstyle.LayerCircle, Source: "pts"}), ErrExists))

	err = m.RemoveSource("pts")
	assert.True(t, errors.Is(err, ErrInUse))

	require.NoError(t, m.RemoveLayer("pts"))
	require.NoError(t, m.RemoveSource("pts"))
	assert.False(t, m.HasSource("pts"))
	assert.True(t, errors.Is(m.RemoveLayer("pts"), ErrNotFound))
	assert.Equal(t, []string{"osm-tiles"}, m.Sources())
}

func TestUpdateSource(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	require.NoError(t, m.AddSource("pts", mapstyle.Source{Type: mapstyle.SourceGeoJSON}))
	require.NoError(t, m.UpdateSource("pts", func(s *mapstyle.Source) {
		s.Points = append(s.Points, mapstyle.Point{Lon: 1, Lat: 2})
	}))
	src, ok := m.Source("pts")
	require.True(t, ok)
	assert.Equal(t, []mapstyle.Point{{Lon: 1, Lat: 2}}, src.Points)

	assert.True(t, errors.Is(m.UpdateSource("missing", func(*mapstyle.Source) {}), ErrNotFound))
}

func TestRelease(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	m.Release()

	assert.True(t, m.Released())
	assert.Empty(t, m.Sources())
	assert.Empty(t, m.Layers())
	assert.True(t, errors.Is(m.AddSource("x", mapstyle.Source{}), ErrReleased))
	assert.True(t, errors.Is(m.AddLayer(mapstyle.Layer{ID: "x"}), ErrReleased))
	assert.False(t, m.ApplyLoad(LoadResult{}), "released surface must not become loaded")
}

func TestLoad_FetchesCentreTile(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	f := &fakeFetcher{}

	res, err := m.Load(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://tile.openstreetmap.org/5/16/10.png"}, f.urls)
	assert.Contains(t, res.Rasters, "osm-tiles")
	assert.Empty(t, res.Errors)

	assert.True(t, m.ApplyLoad(res))
	assert.True(t, m.Loaded())
	assert.False(t, m.ApplyLoad(res), "second load is ignored")
}

func TestLoad_TileErrorDoesNotFail(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	res, err := m.Load(context.Background(), &fakeFetcher{err: errors.New("offline")})
	require.NoError(t, err)
	assert.Contains(t, res.Errors, "osm-tiles")
	assert.True(t, m.ApplyLoad(res))
}

func TestLoad_NilFetcher(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	res, err := m.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Rasters)
}

func TestLoad_Cancelled(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Load(ctx, &fakeFetcher{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_DrawsPointsOnlyWhileLayered(t *testing.T) {
	m := New(mapstyle.Style{Sources: map[string]mapstyle.Source{}}, testViewport())
	require.NoError(t, m.AddSource("pts", mapstyle.Source{
		Type:   mapstyle.SourceGeoJSON,
		Points: []mapstyle.Point{{Lon: 0.1, Lat: 51}},
	}))

	out := m.Render(20, 6)
	assert.Equal(t, 6, strings.Count(out, "\n")+1)
	assert.NotContains(t, out, marker, "source without a layer is not drawn")

	require.NoError(t, m.AddLayer(mapstyle.Layer{ID: "pts", Type: mapstyle.LayerCircle, Source: "pts"}))
	assert.Contains(t, m.Render(20, 6), marker)
}

func TestRender_PointsOutsideTileRange(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		pt   mapstyle.Point
	}{
		{"west of antimeridian", Viewport{Lon: -179.9, Lat: 51, Zoom: 5}, mapstyle.Point{Lon: -181, Lat: 51}},
		{"east of antimeridian", Viewport{Lon: 179.9, Lat: 51, Zoom: 5}, mapstyle.Point{Lon: 181, Lat: 51}},
		{"north of mercator limit", Viewport{Lon: 0, Lat: 85, Zoom: 5}, mapstyle.Point{Lon: 0.1, Lat: 86}},
		{"south of mercator limit", Viewport{Lon: 0, Lat: -85, Zoom: 5}, mapstyle.Point{Lon: 0.1, Lat: -86}},
		{"pole", Viewport{Lon: 0, Lat: 85, Zoom: 5}, mapstyle.Point{Lon: 0.1, Lat: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(mapstyle.Style{Sources: map[string]mapstyle.Source{}}, tt.vp)
			require.NoError(t, m.AddSource("pts", mapstyle.Source{
				Type:   mapstyle.SourceGeoJSON,
				Points: []mapstyle.Point{tt.pt},
			}))
			require.NoError(t, m.AddLayer(mapstyle.Layer{ID: "pts", Type: mapstyle.LayerCircle, Source: "pts"}))

			var out string
			require.NotPanics(t, func() { out = m.Render(20, 10) })
			assert.Equal(t, 10, strings.Count(out, "\n")+1)
			assert.NotContains(t, out, marker)
		})
	}
}

func TestRender_ZeroSize(t *testing.T) {
	m := New(mapstyle.Default(), testViewport())
	assert.Equal(t, "", m.Render(0, 3))
}
