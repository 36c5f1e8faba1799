package tiles

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two pixel rows per terminal row.
const upperHalf = "▀"

// Cells scales img to width x 2*height pixels and returns one row of
// top/bottom colour pairs per terminal row.
func Cells(img image.Image, width, height int) [][][2]color.RGBA {
	if img == nil || width <= 0 || height <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	rows := make([][][2]color.RGBA, height)
	for y := 0; y < height; y++ {
		row := make([][2]color.RGBA, width)
		for x := 0; x < width; x++ {
			row[x] = [2]color.RGBA{dst.RGBAAt(x, y*2), dst.RGBAAt(x, y*2+1)}
		}
		rows[y] = row
	}
	return rows
}

// Shade renders img as width x height half-block cells.
func Shade(img image.Image, width, height int) []string {
	cells := Cells(img, width, height)
	lines := make([]string, len(cells))
	for y, row := range cells {
		var b strings.Builder
		for _, pair := range row {
			b.WriteString(HalfBlock(pair))
		}
		lines[y] = b.String()
	}
	return lines
}

// HalfBlock renders one terminal cell from a top/bottom colour pair.
func HalfBlock(pair [2]color.RGBA) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(pair[0]))).
		Background(lipgloss.Color(hex(pair[1]))).
		Render(upperHalf)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
