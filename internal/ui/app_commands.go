package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"mapdeck/internal/panel"
	"mapdeck/internal/surface"
)

// loadSurfaceCmd runs the panel's surface initialisation off the event
// loop. Only the immutable parts of the surface are read here; the result
// is applied in Update.
func loadSurfaceCmd(ctx context.Context, ctrl *panel.Controller, fetcher surface.TileFetcher) tea.Cmd {
	s := ctrl.Surface()
	if s == nil || ctrl.State() != panel.StateLoading {
		return nil
	}
	id, instance := ctrl.ID(), ctrl.Instance()
	return func() tea.Msg {
		res, err := s.Load(ctx, fetcher)
		return SurfaceLoadedMsg{ID: id, Instance: instance, Result: res, Err: err}
	}
}

// loadSurfacesCmd batches loads for every id still present in the
// collection.
func (m *AppModel) loadSurfacesCmd(ids []string) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		ctrl, ok := m.Panels.Get(id)
		if !ok {
			continue
		}
		if cmd := loadSurfaceCmd(m.ctx, ctrl, m.fetcher); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
