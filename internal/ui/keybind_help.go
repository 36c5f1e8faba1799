package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	h.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	return h
}

// hintBindings turns a hint map into key bindings sorted by key.
func hintBindings(hints map[string]string) []key.Binding {
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	bindings := make([]key.Binding, 0, len(keys))
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return bindings
}

// leaderKeyMap is the help.KeyMap for the keys that can follow the
// pending leader sequence.
type leaderKeyMap struct {
	handler *KeyHandler
}

var _ help.KeyMap = leaderKeyMap{}

func (km leaderKeyMap) ShortHelp() []key.Binding {
	hints := km.handler.Registry.Hints(km.handler.Pending(), km.handler.Mode)
	if len(hints) == 0 {
		return nil
	}
	return append(hintBindings(hints),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (km leaderKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{km.ShortHelp()}
}

// RenderKeybindHelp draws the transient box shown while a leader sequence
// is pending.
func RenderKeybindHelp(h *KeyHandler) string {
	if h == nil || !h.LeaderWaiting {
		return ""
	}
	km := leaderKeyMap{handler: h}
	if len(km.ShortHelp()) == 0 {
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	return box.Render(Styles.Muted.Render(h.Pending()) + " " + newHelpModel().View(km))
}

// RenderKeyHints renders the always-visible single-key hints for mode.
func RenderKeyHints(reg *KeybindRegistry, mode AppMode, width int) string {
	if reg == nil {
		return ""
	}
	bindings := append([]key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp(Leader, "menu")),
	}, hintBindings(reg.Hints("", mode))...)
	h := newHelpModel()
	h.Width = width
	return h.ShortHelpView(bindings)
}
