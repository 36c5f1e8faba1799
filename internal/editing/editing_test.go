package editing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapdeck/internal/mapstyle"
	"mapdeck/internal/surface"
)

func newSurface() *surface.Map {
	return surface.New(mapstyle.Default(), surface.Viewport{Lat: 51, Zoom: 5})
}

func TestAttach_RegistersOwnedSourcesAndLayers(t *testing.T) {
	m := newSurface()
	a, err := Attach(m, Options{})
	require.NoError(t, err)
	assert.False(t, a.Destroyed())

	for _, id := range OwnedSources() {
		assert.True(t, m.HasSource(id), "missing source %s", id)
	}
	assert.True(t, m.HasLayer("gm_main-circle"))
	assert.True(t, m.HasLayer("osm-tiles"), "base layer untouched")
}

func TestAttach_NilHost(t *testing.T) {
	_, err := Attach(nil, Options{})
	assert.Error(t, err)
}

func TestDestroy_RemoveSources(t *testing.T) {
	tests := []struct {
		name          string
		removeSources bool
		wantOwned     bool
	}{
		{"remove sources", true, false},
		{"leave sources behind", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSurface()
			a, err := Attach(m, Options{})
			require.NoError(t, err)
			require.NoError(t, a.AddPoint(0, 51))

			require.NoError(t, a.Destroy(DestroyOptions{RemoveSources: tt.removeSources}))
			assert.True(t, a.Destroyed())
			for _, id := range OwnedSources() {
				assert.Equal(t, tt.wantOwned, m.HasSource(id), "source %s", id)
			}
			assert.Equal(t, tt.wantOwned, m.HasLayer("gm_main-circle"))
			assert.True(t, m.HasSource("osm-tiles"))
		})
	}
}

func TestDestroy_Twice(t *testing.T) {
	m := newSurface()
	a, err := Attach(m, Options{})
	require.NoError(t, err)
	require.NoError(t, a.Destroy(DestroyOptions{RemoveSources: false}))
	require.NoError(t, a.Destroy(DestroyOptions{RemoveSources: true}))
	assert.True(t, m.HasSource(SourceMain), "second destroy must not act")
}

func TestReattach_AdoptsLeftoverData(t *testing.T) {
	m := newSurface()
	first, err := Attach(m, Options{})
	require.NoError(t, err)
	require.NoError(t, first.AddPoint(1, 51))
	require.NoError(t, first.Destroy(DestroyOptions{RemoveSources: false}))

	second, err := Attach(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, []mapstyle.Point{{Lon: 1, Lat: 51}}, second.Points())
	assert.Len(t, m.Layers(), 5)
}

func TestAddPoint_AfterDestroy(t *testing.T) {
	m := newSurface()
	a, err := Attach(m, Options{})
	require.NoError(t, err)
	require.NoError(t, a.Destroy(DestroyOptions{RemoveSources: true}))
	assert.True(t, errors.Is(a.AddPoint(0, 0), ErrDestroyed))
	assert.Nil(t, a.Points())
}

func TestAttach_ReleasedSurface(t *testing.T) {
	m := newSurface()
	m.Release()
	_, err := Attach(m, Options{})
	assert.True(t, errors.Is(err, surface.ErrReleased))
}
