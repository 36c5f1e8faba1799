package ui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mapdeck/internal/trace"
)

// EventLogView displays the lifecycle event log in a scrollable viewport.
type EventLogView struct {
	log      *trace.EventLog
	viewport viewport.Model
	width    int
	height   int
	visible  bool
	dirty    atomic.Bool // set by the log on append
}

// Ensure EventLogView implements View
var _ View = (*EventLogView)(nil)

// NewEventLogView creates a hidden view over log. A nil log renders a
// placeholder.
func NewEventLogView(log *trace.EventLog) *EventLogView {
	vp := viewport.New(50, 8)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	v := &EventLogView{
		log:      log,
		viewport: vp,
		width:    50,
		height:   8,
	}
	v.dirty.Store(true)
	if log != nil {
		log.SetOnChange(func() { v.dirty.Store(true) })
	}
	return v
}

// Init implements View
func (v *EventLogView) Init() tea.Cmd {
	return nil
}

// Update implements View
func (v *EventLogView) Update(msg tea.Msg) (View, tea.Cmd) {
	if !v.visible {
		return v, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			v.viewport.LineDown(1)
			return v, nil
		case "k", "up":
			v.viewport.LineUp(1)
			return v, nil
		case "ctrl+d", "pgdown":
			v.viewport.PageDown()
			return v, nil
		case "ctrl+u", "pgup":
			v.viewport.PageUp()
			return v, nil
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View implements View
func (v *EventLogView) View() string {
	if !v.visible {
		return ""
	}
	v.Refresh()
	return v.viewport.View()
}

// SetSize sets the outer size of the view, border included.
func (v *EventLogView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = max(width, 4)
	v.viewport.Height = max(height, 3)
	v.rebuild()
}

// Height returns the rows the view occupies when visible.
func (v *EventLogView) Height() int {
	return v.viewport.Height
}

// SetVisible sets whether the view is shown.
func (v *EventLogView) SetVisible(visible bool) {
	v.visible = visible
	if visible {
		v.rebuild()
		v.viewport.GotoBottom()
	}
}

// IsVisible returns whether the view is shown.
func (v *EventLogView) IsVisible() bool {
	return v.visible
}

// Refresh rebuilds the content if the log changed since the last rebuild,
// following the tail if the viewport was already at the bottom.
func (v *EventLogView) Refresh() {
	if v.dirty.Load() {
		v.rebuild()
	}
}

func (v *EventLogView) rebuild() {
	v.dirty.Store(false)
	if v.log == nil {
		v.viewport.SetContent(Styles.Empty.Render("event log disabled"))
		return
	}
	events := v.log.Events()
	follow := v.viewport.AtBottom()
	if len(events) == 0 {
		v.viewport.SetContent(Styles.Empty.Render("no events yet"))
		return
	}
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, Styles.Title.Render("Event log"))
	for _, ev := range events {
		lines = append(lines, formatEvent(ev))
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
	if follow {
		v.viewport.GotoBottom()
	}
}

func formatEvent(ev trace.Event) string {
	ts := Styles.Muted.Render(ev.Time.Format("15:04:05.000"))
	panelID := ev.PanelID
	if panelID == "" {
		panelID = "-"
	}
	line := fmt.Sprintf("%s %-7s %s", ts, panelID, eventStyle(ev.Type).Render(string(ev.Type)))
	if ev.Detail != "" {
		line += " " + Styles.Muted.Render(ev.Detail)
	}
	return line
}

func eventStyle(t trace.EventType) lipgloss.Style {
	switch t {
	case trace.EventPanelFailed:
		return Styles.Error
	case trace.EventPluginConstruct, trace.EventSurfaceReady:
		return Styles.Status
	case trace.EventReadyIgnored:
		return Styles.Muted
	default:
		return Styles.Normal
	}
}
