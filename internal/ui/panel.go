package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mapdeck/internal/mapstyle"
	"mapdeck/internal/panel"
	"mapdeck/internal/ui/textutil"
)

// PanelView renders one panel controller into a grid cell.
type PanelView struct {
	Ctrl    *panel.Controller
	Focused bool
	Spinner string // current spinner frame, shown while the surface loads
}

// drawing is implemented by plugins that hold drawn features.
type drawing interface {
	Points() []mapstyle.Point
}

// chromeRows is the border plus the two header lines above the map.
const chromeRows = 4

// Render draws the panel at exactly width x height cells.
func (p PanelView) Render(width, height int) string {
	frame := Styles.Panel
	switch {
	case p.Ctrl.State() == panel.StateFailed:
		frame = Styles.PanelFailed
	case p.Focused:
		frame = Styles.PanelFocused
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	lines := []string{
		p.titleLine(innerW),
		p.toggleLine(innerW),
	}
	bodyH := max(height-chromeRows, 0)
	if bodyH > 0 {
		lines = append(lines, p.body(innerW, bodyH))
	}
	content := lipgloss.NewStyle().Width(innerW).Height(innerH).MaxHeight(innerH).
		Render(strings.Join(lines, "\n"))
	return frame.Render(content)
}

func (p PanelView) titleLine(width int) string {
	label := Styles.Label.Render(p.Ctrl.ID())
	badge := Styles.BadgeOff.Render("Plugin: OFF")
	if p.Ctrl.PluginEnabled() {
		badge = Styles.BadgeOn.Render("Plugin: ON")
	}
	state := Styles.Muted.Render(p.Ctrl.State().String())
	return textutil.TruncateStyled(label+" "+badge+" "+state, width)
}

func (p PanelView) toggleLine(width int) string {
	box := "[ ]"
	if p.Ctrl.RemoveSources() {
		box = "[x]"
	}
	return Styles.Normal.Render(textutil.Truncate(box+" Remove sources on destroy", width))
}

func (p PanelView) body(width, height int) string {
	switch p.Ctrl.State() {
	case panel.StateLoading:
		return Styles.Muted.Render(p.Spinner + " loading surface…")
	case panel.StateFailed:
		msg := "panel failed"
		if err := p.Ctrl.Err(); err != nil {
			msg = err.Error()
		}
		return Styles.Error.Width(width).Render(msg)
	case panel.StateDestroyed:
		return ""
	}
	s := p.Ctrl.Surface()
	if s == nil {
		return ""
	}
	vp := s.Viewport()
	text := fmt.Sprintf("%.2f, %.2f z%d", vp.Lat, vp.Lon, vp.Zoom)
	if d, ok := p.Ctrl.Plugin().(drawing); ok {
		text += fmt.Sprintf(" · %d pts", len(d.Points()))
	}
	caption := Styles.Muted.Render(textutil.Truncate(text, width))
	if height < 2 {
		return caption
	}
	return s.Render(width, height-1) + "\n" + caption
}
