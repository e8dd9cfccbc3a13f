package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"supplyask/internal/render"
)

// ResponsePanel shows the settled answer in a scrollable viewport,
// or a spinner while a query is pending.
type ResponsePanel struct {
	viewport viewport.Model
	spinner  spinner.Model
	painter  render.Painter
	display  render.Display
	shown    bool
	pending  bool
}

// Ensure ResponsePanel implements View.
var _ View = (*ResponsePanel)(nil)

// NewResponsePanel creates an empty panel of the given content size.
func NewResponsePanel(width, height int) *ResponsePanel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Spinner
	return &ResponsePanel{
		viewport: viewport.New(width, height),
		spinner:  s,
		painter:  render.NewPainter(width),
	}
}

// SetSize resizes the panel and repaints the current display at the new width.
func (p *ResponsePanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.painter.Width = width
	if p.shown {
		p.viewport.SetContent(p.painter.Paint(p.display))
	}
}

// SetPending switches the loading indicator on or off.
// Going pending drops the previous display. Returns the spinner's tick
// command when the indicator starts.
func (p *ResponsePanel) SetPending(pending bool) tea.Cmd {
	p.pending = pending
	if pending {
		p.display = render.Display{}
		p.shown = false
		p.viewport.SetContent("")
		return p.spinner.Tick
	}
	return nil
}

// Pending reports whether the loading indicator is showing.
func (p *ResponsePanel) Pending() bool {
	return p.pending
}

// Show paints d and scrolls to its top.
func (p *ResponsePanel) Show(d render.Display) {
	p.pending = false
	p.display = d
	p.shown = true
	p.viewport.SetContent(p.painter.Paint(d))
	p.viewport.GotoTop()
}

// Display returns what the panel is currently showing.
func (p *ResponsePanel) Display() (render.Display, bool) {
	return p.display, p.shown
}

// ScrollUp scrolls half a page up.
func (p *ResponsePanel) ScrollUp() {
	p.viewport.HalfPageUp()
}

// ScrollDown scrolls half a page down.
func (p *ResponsePanel) ScrollDown() {
	p.viewport.HalfPageDown()
}

// Init implements View.
func (p *ResponsePanel) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (p *ResponsePanel) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.pending {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	case tea.MouseMsg:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View implements View.
func (p *ResponsePanel) View() string {
	switch {
	case p.pending:
		return p.spinner.View() + " " + Styles.Muted.Render("Waiting for the query service…")
	case !p.shown:
		return Styles.Empty.Render("Ask a question to see the answer here.")
	default:
		return p.viewport.View()
	}
}
