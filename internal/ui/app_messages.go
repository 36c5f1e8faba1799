package ui

import "mapdeck/internal/surface"

// AddPanelMsg appends a panel (SPC a).
type AddPanelMsg struct{}

// RemovePanelMsg removes a panel (d). An empty ID means the focused panel.
type RemovePanelMsg struct {
	ID string
}

// RemoveAllMsg removes every panel (SPC X).
type RemoveAllMsg struct{}

// ResetMsg rebuilds the initial two panels (SPC R).
type ResetMsg struct{}

// TogglePluginMsg flips the plugin on the focused panel (e).
type TogglePluginMsg struct {
	ID string
}

// ToggleRemoveSourcesMsg flips the remove-sources checkbox on the focused
// panel (s).
type ToggleRemoveSourcesMsg struct {
	ID string
}

// DrawPointMsg draws a point near the focused panel's centre (p).
type DrawPointMsg struct {
	ID string
}

// ToggleEventLogMsg shows or hides the event log (SPC l).
type ToggleEventLogMsg struct{}

// FocusNextMsg and FocusPrevMsg rotate panel focus (tab / shift+tab).
type FocusNextMsg struct{}

type FocusPrevMsg struct{}

// SurfaceLoadedMsg carries the outcome of a surface Load back to the event
// loop. Instance identifies the controller the load was started for, so a
// result arriving after its panel was removed or reset is dropped.
type SurfaceLoadedMsg struct {
	ID       string
	Instance string
	Result   surface.LoadResult
	Err      error
}
