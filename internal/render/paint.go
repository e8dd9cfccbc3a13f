package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"supplyask/internal/markdown"
	"supplyask/internal/ui/theme"
)

// Styles contains the styles used to paint a Display.
type Styles struct {
	Heading    lipgloss.Style
	Code       lipgloss.Style
	Quote      lipgloss.Style
	Rule       lipgloss.Style
	Label      lipgloss.Style
	Definition lipgloss.Style
	Footer     lipgloss.Style
	Notice     lipgloss.Style
}

// DefaultStyles returns the default painting styles.
func DefaultStyles() Styles {
	return Styles{
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.ColorAccent)),
		Code: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorCode)),
		Quote: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorMuted)).
			Italic(true),
		Rule: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorDim)),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.ColorWarning)),
		Definition: lipgloss.NewStyle().
			Italic(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorMuted)),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorDanger)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.ColorDanger)).
			Padding(0, 1),
	}
}

// Painter turns a Display into terminal text.
// Width bounds prose wrapping and table rows; zero means unbounded.
type Painter struct {
	Styles Styles
	Width  int
}

// NewPainter creates a painter with the default styles.
func NewPainter(width int) Painter {
	return Painter{Styles: DefaultStyles(), Width: width}
}

// Paint renders every block of d, separated by blank lines.
func (p Painter) Paint(d Display) string {
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, p.paintBlock(b))
	}
	return strings.Join(parts, "\n\n")
}

func (p Painter) paintBlock(b Block) string {
	switch b := b.(type) {
	case Prose:
		return p.paintProse(b.Markdown)
	case Definition:
		return p.wrap(p.Styles.Label.Render(b.Label+":") + " " + p.Styles.Definition.Render(b.Text))
	case Table:
		return p.paintTable(b)
	case Notice:
		return p.paintNotice(b)
	default:
		panic(fmt.Sprintf("render: unhandled block %T", b))
	}
}

func (p Painter) paintProse(blocks []markdown.Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			// List items stack tightly; every other block gets a blank line.
			if b.Kind == markdown.BlockListItem && blocks[i-1].Kind == markdown.BlockListItem {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		s := p.paintMarkdownBlock(b)
		if b.Quote > 0 && b.Kind != markdown.BlockQuote {
			s = quoteLines(s, b.Quote)
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// quoteLines puts depth quote bars in front of every line of s.
func quoteLines(s string, depth int) string {
	bar := strings.Repeat("│ ", depth)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = bar + l
	}
	return strings.Join(lines, "\n")
}

func (p Painter) paintMarkdownBlock(b markdown.Block) string {
	switch b.Kind {
	case markdown.BlockHeading:
		return p.wrap(p.Styles.Heading.Render(b.Text()))
	case markdown.BlockListItem:
		indent := strings.Repeat("  ", max(b.Level-1, 0))
		prefix := indent + b.Marker + " "
		body := p.paintSpans(b.Spans)
		if p.Width > len(prefix) {
			body = lipgloss.NewStyle().Width(p.Width - len(prefix)).Render(body)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, prefix, body)
	case markdown.BlockCode:
		return p.Styles.Code.Render(b.Text())
	case markdown.BlockQuote:
		bar := strings.Repeat("│ ", max(b.Level, 1))
		return bar + p.Styles.Quote.Render(b.Text())
	case markdown.BlockRule:
		n := 40
		if p.Width > 0 && p.Width < n {
			n = p.Width
		}
		return p.Styles.Rule.Render(strings.Repeat("─", n))
	default:
		return p.wrap(p.paintSpans(b.Spans))
	}
}

func (p Painter) paintSpans(spans []markdown.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(spanStyle(s.Style, p.Styles).Render(s.Text))
	}
	return sb.String()
}

func spanStyle(s markdown.Style, styles Styles) lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Has(markdown.StyleCode) {
		st = styles.Code
	}
	if s.Has(markdown.StyleBold) {
		st = st.Bold(true)
	}
	if s.Has(markdown.StyleItalic) {
		st = st.Italic(true)
	}
	if s.Has(markdown.StyleStrike) {
		st = st.Strikethrough(true)
	}
	if s.Has(markdown.StyleLink) {
		st = st.Underline(true)
	}
	return st
}

func (p Painter) paintTable(t Table) string {
	footer := p.Styles.Footer.Render(rowCount(len(t.Rows)))
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return footer
	}

	tw := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	if p.Width > 0 {
		tw.SetAllowedRowLength(p.Width)
	}

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		tw.AppendRow(row)
	}

	return tw.Render() + "\n" + footer
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}

func (p Painter) paintNotice(n Notice) string {
	st := p.Styles.Notice
	if p.Width > 4 {
		st = st.Width(p.Width - 2)
	}
	return st.Render(n.Message)
}

func (p Painter) wrap(s string) string {
	if p.Width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(p.Width).Render(s)
}
