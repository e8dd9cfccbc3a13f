package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"supplyask/internal/ui/textutil"
)

const appTitle = "Supply Chain Assistant"

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(appTitle) + "\n\n")

	b.WriteString(Styles.FieldLabel.Render("Question") + a.Input.View() + "\n")
	b.WriteString(a.Role.View(a.Focus.Is(FocusRole)) + "\n")
	b.WriteString(a.Region.View(a.Focus.Is(FocusRegion)) + "\n")
	b.WriteString(a.submitView() + "\n")

	box := Styles.Box
	if a.Response.Pending() {
		box = Styles.BoxFocused
	}
	b.WriteString(box.Width(max(a.width-2, 10)).Render(a.Response.View()) + "\n")
	b.WriteString(a.Help.View(a.Keys))
	return b.String()
}

// submitView renders the submit control and the status line beside it.
func (a *AppModel) submitView() string {
	var button string
	switch {
	case !a.Session.CanSubmit():
		button = Styles.ButtonOff.Render("Ask")
	case a.Focus.Is(FocusSubmit):
		button = Styles.ButtonActive.Render("Ask")
	default:
		button = Styles.Button.Render("Ask")
	}

	status := ""
	if a.Status != "" {
		room := a.width - labelWidth - lipgloss.Width(button) - 2
		st := Styles.Status
		if a.statusWarn {
			st = Styles.StatusWarn
		}
		status = "  " + st.Render(textutil.Truncate(a.Status, room))
	}
	return strings.Repeat(" ", labelWidth) + button + status
}
