package ui

import (
	"github.com/charmbracelet/lipgloss"

	"supplyask/internal/ui/theme"
)

// Styles contains shared style definitions used across the screen.
var Styles = struct {
	Title lipgloss.Style // Bold accent color - for the app title

	Box        lipgloss.Style // Response panel border
	BoxFocused lipgloss.Style // Response panel border while a query is pending

	FieldLabel   lipgloss.Style // Labels in front of inputs
	Selected     lipgloss.Style // Current selector option (focused)
	SelectedDim  lipgloss.Style // Current selector option (unfocused)
	Option       lipgloss.Style // Other selector options
	Button       lipgloss.Style // Submit control
	ButtonActive lipgloss.Style // Submit control with focus
	ButtonOff    lipgloss.Style // Submit control while a query is pending
	Muted        lipgloss.Style // Dimmed text
	Status       lipgloss.Style // Status line
	StatusWarn   lipgloss.Style // Refused actions
	Empty        lipgloss.Style // Empty state text
	Spinner      lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ColorAccent)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColorDim)).
		Padding(0, 1),
	BoxFocused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColorHighlight)).
		Padding(0, 1),
	FieldLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorMuted)).
		Width(10),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorHighlight)).
		Bold(true),
	SelectedDim: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorText)).
		Bold(true),
	Option: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorDim)),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorText)).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(lipgloss.Color(theme.ColorDim)).
		Padding(0, 1),
	ButtonActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorHighlight)).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(lipgloss.Color(theme.ColorHighlight)).
		Padding(0, 1),
	ButtonOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorDim)).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(lipgloss.Color(theme.ColorDim)).
		Padding(0, 1),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorAccent)),
	StatusWarn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorWarning)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorMuted)).
		Italic(true),
	Spinner: lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorAccent)),
}
