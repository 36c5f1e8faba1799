package surface

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mapdeck/internal/mapstyle"
	"mapdeck/internal/tiles"
)

var (
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

const marker = "●"

// Render draws the surface into width x height terminal cells: the topmost
// raster layer as a backdrop (or a dotted graticule when there is none),
// then the points of every geojson source still drawn by a layer.
func (m *Map) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]string, height)
	backdrop := m.backdrop(width, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			if backdrop != nil {
				grid[y][x] = tiles.HalfBlock(backdrop[y][x])
				continue
			}
			if x%4 == 0 && y%2 == 0 {
				grid[y][x] = gridStyle.Render("·")
			} else {
				grid[y][x] = " "
			}
		}
	}

	tile, _, _ := tiles.Locate(m.viewport.Lon, m.viewport.Lat, m.viewport.Zoom)
	for _, p := range m.visiblePoints() {
		c, fx, fy := tiles.Locate(p.Lon, p.Lat, m.viewport.Zoom)
		// Locate clamps the tile index, not the offset: points past the
		// antimeridian or the mercator limit land in an edge tile with an
		// offset outside [0, 1).
		if c != tile || !inUnit(fx) || !inUnit(fy) {
			continue
		}
		x := min(int(fx*float64(width)), width-1)
		y := min(int(fy*float64(height)), height-1)
		grid[y][x] = markerStyle.Render(marker)
	}

	lines := make([]string, height)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func inUnit(v float64) bool {
	return v >= 0 && v < 1
}

func (m *Map) backdrop(width, height int) [][][2]color.RGBA {
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if l.Type != mapstyle.LayerRaster {
			continue
		}
		if img, ok := m.rasters[l.Source]; ok {
			return tiles.Cells(img, width, height)
		}
	}
	return nil
}

func (m *Map) visiblePoints() []mapstyle.Point {
	var out []mapstyle.Point
	drawn := make(map[string]bool)
	for _, l := range m.layers {
		if l.Type == mapstyle.LayerRaster || drawn[l.Source] {
			continue
		}
		drawn[l.Source] = true
		if src, ok := m.sources[l.Source]; ok && src.Type == mapstyle.SourceGeoJSON {
			out = append(out, src.Points...)
		}
	}
	return out
}
