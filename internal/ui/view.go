package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a self-contained region of the screen with its own update loop.
// The response panel is one; the root model routes messages to it.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
