// Package ui is the Bubble Tea front end: a grid of map panels, a leader-key
// keybind system, and an event log.
//
// Core pieces:
//   - AppModel: root model; owns the panel collection and routes messages
//   - PanelView: renders one panel controller into a grid cell
//   - GridLayout: one column for a single panel, two otherwise
//   - FocusManager: tracks which panel per-panel keys act on
//   - KeybindRegistry / KeyHandler: SPC-prefixed global actions
//   - EventLogView: scrollable lifecycle log
//
// Surface loading runs in tea.Cmds; every state transition happens in
// Update, so panel controllers only ever see one event at a time.
package ui
