package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"mapdeck/internal/mapstyle"
	"mapdeck/internal/panel"
	"mapdeck/internal/surface"
)

func newTestController(t *testing.T) *panel.Controller {
	t.Helper()
	s := surface.New(mapstyle.Default(), surface.Viewport{Lon: 2.35, Lat: 51, Zoom: 5})
	return panel.New("map-1", s, panel.Editing)
}

func TestPanelView_Loading(t *testing.T) {
	ctrl := newTestController(t)
	out := PanelView{Ctrl: ctrl, Spinner: "*"}.Render(40, 12)

	for _, want := range []string{"map-1", "Plugin: ON", "Loading", "[x] Remove sources", "loading surface"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if h := lipgloss.Height(out); h != 12 {
		t.Errorf("height = %d, want 12", h)
	}
	if w := lipgloss.Width(out); w != 40 {
		t.Errorf("width = %d, want 40", w)
	}
}

func TestPanelView_ReadyShowsViewport(t *testing.T) {
	ctrl := newTestController(t)
	ctrl.SetPluginEnabled(false)
	ctrl.ToggleRemoveSources()
	if err := ctrl.SurfaceReady(ctrl.Instance(), surface.LoadResult{}); err != nil {
		t.Fatalf("SurfaceReady: %v", err)
	}
	out := PanelView{Ctrl: ctrl, Focused: true}.Render(40, 12)

	for _, want := range []string{"Plugin: OFF", "Ready", "[ ] Remove sources", "51.00, 2.35 z5"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestPanelView_CaptionCountsDrawnPoints(t *testing.T) {
	ctrl := newTestController(t)
	if err := ctrl.SurfaceReady(ctrl.Instance(), surface.LoadResult{}); err != nil {
		t.Fatalf("SurfaceReady: %v", err)
	}
	if out := (PanelView{Ctrl: ctrl}).Render(50, 12); !strings.Contains(out, "0 pts") {
		t.Errorf("render missing point count:\n%s", out)
	}
	if err := ctrl.AddPoint(2, 51); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if out := (PanelView{Ctrl: ctrl}).Render(50, 12); !strings.Contains(out, "1 pts") {
		t.Errorf("render missing point count after drawing:\n%s", out)
	}

	ctrl.SetPluginEnabled(false)
	if out := (PanelView{Ctrl: ctrl}).Render(50, 12); strings.Contains(out, "pts") {
		t.Errorf("point count shown without a plugin:\n%s", out)
	}
}

func TestPanelView_Failed(t *testing.T) {
	ctrl := panel.Failed("map-7", errors.New("style rejected"))
	out := PanelView{Ctrl: ctrl}.Render(40, 10)
	if !strings.Contains(out, "style rejected") {
		t.Errorf("render missing error:\n%s", out)
	}
	if !strings.Contains(out, "Failed") {
		t.Errorf("render missing state:\n%s", out)
	}
}

func TestPanelView_Tiny(t *testing.T) {
	ctrl := newTestController(t)
	out := PanelView{Ctrl: ctrl}.Render(6, 3)
	if out == "" {
		t.Error("tiny panels should still render a frame")
	}
}
