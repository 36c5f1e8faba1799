package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"      // Cyan/green - for titles, highlights
	ColorHighlight = "205"     // Magenta - for focused panels, keys
	ColorDanger    = "196"     // Red - for errors, remove actions
	ColorMuted     = "241"     // Gray - for dimmed text, hints
	ColorText      = "252"     // Light gray - for normal text
	ColorBorder    = "238"     // Dark gray - for unfocused borders
	ColorPluginOn  = "#44aa44" // Green - plugin attached
	ColorPluginOff = "#666666" // Gray - plugin off
)

// Styles contains shared style definitions used across views.
var Styles = struct {
	Header lipgloss.Style // Top bar
	Title  lipgloss.Style // Bold accent color
	Label  lipgloss.Style // Panel id label

	Panel        lipgloss.Style // Unfocused panel frame
	PanelFocused lipgloss.Style // Focused panel frame
	PanelFailed  lipgloss.Style // Failed panel frame

	BadgeOn  lipgloss.Style // Plugin ON badge
	BadgeOff lipgloss.Style // Plugin OFF badge

	Muted  lipgloss.Style // Dimmed text
	Normal lipgloss.Style // Normal text
	Error  lipgloss.Style // Error text
	Empty  lipgloss.Style // Empty state text (muted, italic)
	Status lipgloss.Style // Status line
}{
	Header: lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color("235")).
		Padding(0, 1),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)),
	PanelFocused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)),
	PanelFailed: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)),
	BadgeOn: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(ColorPluginOn)).
		Padding(0, 1),
	BadgeOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(ColorPluginOff)).
		Padding(0, 1),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
}
