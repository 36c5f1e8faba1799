package ui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"mapdeck/internal/collection"
	"mapdeck/internal/mapstyle"
	"mapdeck/internal/panel"
	"mapdeck/internal/surface"
	"mapdeck/internal/trace"
)

// Options configures the root model. Zero values fall back to the
// defaults new panels get in a fresh session.
type Options struct {
	Context         context.Context
	Style           mapstyle.Style
	Latitude        float64
	Zoom            int
	LongitudeSpread float64
	PluginEnabled   bool
	RemoveSources   bool
	Plugins         panel.PluginProvider
	Fetcher         surface.TileFetcher // nil disables raster tiles
	Recorder        *trace.Recorder
	Rand            *rand.Rand
}

// DefaultOptions returns the startup settings: lat 51, zoom 5, longitude
// spread 10, plugin on, remove sources on.
func DefaultOptions() Options {
	return Options{
		Style:           mapstyle.Default(),
		Latitude:        51,
		Zoom:            5,
		LongitudeSpread: 10,
		PluginEnabled:   true,
		RemoveSources:   true,
	}
}

// AppModel is the root model. It owns the panel collection and is the only
// place panel controllers are driven from.
type AppModel struct {
	Mode       AppMode
	Panels     *collection.Collection
	Focus      *FocusManager
	KeyHandler *KeyHandler
	EventLog   *EventLogView

	opts    Options
	ctx     context.Context
	fetcher surface.TileFetcher
	rec     *trace.Recorder
	rand    *rand.Rand
	spinner spinner.Model
	status  string
	width   int
	height  int
	gridTop int // first grid row drawn
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model with the initial two panels.
func NewAppModel(opts Options) *AppModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Plugins == nil {
		opts.Plugins = panel.Editing
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.Style.Sources == nil && opts.Style.Layers == nil {
		opts.Style = mapstyle.Default()
	}

	reg := NewKeybindRegistry()
	grid := ModeGrid
	reg.Bind("q", tea.Quit, "quit")
	reg.Bind("ctrl+c", tea.Quit, "")
	reg.Bind("SPC a", func() tea.Msg { return AddPanelMsg{} }, "add map")
	reg.Bind("SPC X", func() tea.Msg { return RemoveAllMsg{} }, "remove all")
	reg.Bind("SPC R", func() tea.Msg { return ResetMsg{} }, "reset")
	reg.Bind("SPC l", func() tea.Msg { return ToggleEventLogMsg{} }, "event log")
	reg.Bind("SPC q", tea.Quit, "quit")
	reg.BindIn("e", func() tea.Msg { return TogglePluginMsg{} }, "plugin", grid)
	reg.BindIn("s", func() tea.Msg { return ToggleRemoveSourcesMsg{} }, "remove sources", grid)
	reg.BindIn("d", func() tea.Msg { return RemovePanelMsg{} }, "remove", grid)
	reg.BindIn("p", func() tea.Msg { return DrawPointMsg{} }, "draw point", grid)
	reg.BindIn("tab", func() tea.Msg { return FocusNextMsg{} }, "focus", grid)
	reg.BindIn("shift+tab", func() tea.Msg { return FocusPrevMsg{} }, "", grid)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.Muted

	m := &AppModel{
		Mode:       ModeGrid,
		Focus:      &FocusManager{},
		KeyHandler: NewKeyHandler(reg),
		EventLog:   NewEventLogView(opts.Recorder.Log()),
		opts:       opts,
		ctx:        opts.Context,
		fetcher:    opts.Fetcher,
		rec:        opts.Recorder,
		rand:       opts.Rand,
		spinner:    sp,
	}
	m.Focus.OnChange = func(from, to string) {
		m.rec.Logger().Debug("focus changed", zap.String("from", from), zap.String("to", to))
	}
	m.Panels = collection.New(m.newPanel, m.rec)
	m.Focus.SetOrder(m.Panels.IDs())
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// newPanel is the collection's factory. Each panel gets its own surface
// centred on a pseudo-random longitude.
func (m *AppModel) newPanel(id string) *panel.Controller {
	opts := []panel.Option{
		panel.WithPluginEnabled(m.opts.PluginEnabled),
		panel.WithRemoveSources(m.opts.RemoveSources),
		panel.WithRecorder(m.rec),
	}
	if err := m.opts.Style.Validate(); err != nil {
		return panel.Failed(id, fmt.Errorf("create surface: %w", err), opts...)
	}
	spread := m.opts.LongitudeSpread
	vp := surface.Viewport{
		Lon:  m.rand.Float64()*2*spread - spread,
		Lat:  m.opts.Latitude,
		Zoom: m.opts.Zoom,
	}
	return panel.New(id, surface.New(m.opts.Style, vp), m.opts.Plugins, opts...)
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadSurfacesCmd(a.Panels.IDs()))
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.EventLog.SetSize(msg.Width, a.eventLogHeight())
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case SurfaceLoadedMsg:
		a.handleSurfaceLoaded(msg)
		return a, nil
	case AddPanelMsg:
		id := a.Panels.Add()
		a.Focus.SetOrder(a.Panels.IDs())
		a.Focus.SetFocus(id)
		a.status = "added " + id
		return a, a.loadSurfacesCmd([]string{id})
	case RemovePanelMsg:
		id := a.target(msg.ID)
		if a.Panels.Remove(id) {
			a.status = "removed " + id
		}
		a.Focus.SetOrder(a.Panels.IDs())
		return a, nil
	case RemoveAllMsg:
		a.Panels.RemoveAll()
		a.Focus.SetOrder(nil)
		a.status = "removed all maps"
		return a, nil
	case ResetMsg:
		a.Panels.Reset()
		a.Focus.Current = ""
		a.Focus.SetOrder(a.Panels.IDs())
		a.status = "reset"
		return a, a.loadSurfacesCmd(a.Panels.IDs())
	case TogglePluginMsg:
		if ctrl, ok := a.Panels.Get(a.target(msg.ID)); ok {
			a.report(ctrl.ID(), ctrl.TogglePlugin())
		}
		return a, nil
	case ToggleRemoveSourcesMsg:
		if ctrl, ok := a.Panels.Get(a.target(msg.ID)); ok {
			ctrl.ToggleRemoveSources()
		}
		return a, nil
	case DrawPointMsg:
		if ctrl, ok := a.Panels.Get(a.target(msg.ID)); ok {
			a.drawPoint(ctrl)
		}
		return a, nil
	case ToggleEventLogMsg:
		visible := !a.EventLog.IsVisible()
		a.EventLog.SetVisible(visible)
		a.Mode = ModeGrid
		if visible {
			a.Mode = ModeEventLog
		}
		a.KeyHandler.Mode = a.Mode
		a.EventLog.SetSize(a.width, a.eventLogHeight())
		return a, nil
	case FocusNextMsg:
		a.Focus.Next()
		return a, nil
	case FocusPrevMsg:
		a.Focus.Prev()
		return a, nil
	case tea.KeyMsg:
		if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
			return a, keyCmd
		}
		if a.Mode == ModeEventLog {
			if msg.String() == "esc" {
				return a.Update(ToggleEventLogMsg{})
			}
			_, cmd := a.EventLog.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *AppModel) handleSurfaceLoaded(msg SurfaceLoadedMsg) {
	ctrl, ok := a.Panels.Get(msg.ID)
	if !ok {
		a.rec.Event(msg.ID, trace.EventReadyIgnored, "panel removed")
		a.rec.Logger().Debug("dropping load result for removed panel", zap.String("panel", msg.ID))
		return
	}
	if msg.Err != nil {
		ctrl.SurfaceFailed(msg.Instance, msg.Err)
		return
	}
	a.report(msg.ID, ctrl.SurfaceReady(msg.Instance, msg.Result))
}

// drawPoint drops a point a little way from the panel's centre so repeated
// presses stay distinguishable.
func (a *AppModel) drawPoint(ctrl *panel.Controller) {
	s := ctrl.Surface()
	if s == nil {
		return
	}
	vp := s.Viewport()
	lon := vp.Lon + (a.rand.Float64()-0.5)*2
	lat := vp.Lat + (a.rand.Float64()-0.5)*2
	a.report(ctrl.ID(), ctrl.AddPoint(lon, lat))
}

// target resolves an empty id to the focused panel.
func (a *AppModel) target(id string) string {
	if id != "" {
		return id
	}
	return a.Focus.Current
}

func (a *AppModel) report(id string, err error) {
	if err == nil {
		return
	}
	a.status = fmt.Sprintf("%s: %v", id, err)
	a.rec.Logger().Warn("panel action failed", zap.String("panel", id), zap.Error(err))
}

func (a *AppModel) eventLogHeight() int {
	return max(a.height/3, 5)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	header := a.renderHeader(width)
	footer := RenderKeyHints(a.KeyHandler.Registry, a.Mode, width)

	var overlay string
	if a.KeyHandler.LeaderWaiting {
		overlay = RenderKeybindHelp(a.KeyHandler)
	}
	var logView string
	if a.EventLog.IsVisible() {
		logView = a.EventLog.View()
	}

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if overlay != "" {
		used += lipgloss.Height(overlay)
	}
	if logView != "" {
		used += lipgloss.Height(logView)
	}
	gridH := a.height - used
	if a.height <= 0 {
		gridH = 2 * minCellHeight
	}

	parts := []string{header, a.renderGrid(width, gridH)}
	if logView != "" {
		parts = append(parts, logView)
	}
	if overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *AppModel) renderHeader(width int) string {
	title := Styles.Title.Render(fmt.Sprintf("Maps: %d", a.Panels.Len()))
	line := title + " " + Styles.Muted.Render("next "+a.Panels.Next())
	if a.status != "" {
		line += "  " + Styles.Status.Render(a.status)
	}
	return Styles.Header.Width(width).Render(line)
}

func (a *AppModel) renderGrid(width, height int) string {
	ids := a.Panels.IDs()
	if len(ids) == 0 {
		return Styles.Empty.Render("No maps. SPC a adds one, SPC R resets.")
	}
	layout := GridLayout{Count: len(ids), Width: width, Height: height}
	cells := layout.Cells()
	cols := layout.Columns()

	focusRow := -1
	if i := slices.Index(ids, a.Focus.Current); i >= 0 {
		focusRow = layout.RowOf(i)
	}
	a.gridTop = layout.ScrollTop(a.gridTop, focusRow)
	first := a.gridTop * cols
	last := min((a.gridTop+layout.VisibleRows())*cols, len(ids))

	var rows []string
	for start := first; start < last; start += cols {
		end := min(start+cols, last)
		row := make([]string, 0, cols)
		for i := start; i < end; i++ {
			ctrl, ok := a.Panels.Get(ids[i])
			if !ok {
				continue
			}
			pv := PanelView{Ctrl: ctrl, Focused: ids[i] == a.Focus.Current, Spinner: a.spinner.View()}
			row = append(row, pv.Render(cells[i].W, cells[i].H))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
