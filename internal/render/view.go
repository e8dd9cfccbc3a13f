package render

import (
	"fmt"

	"supplyask/internal/jsonutil"
	"supplyask/internal/markdown"
	"supplyask/internal/query"
)

// DefinitionLabel prefixes the definition of a hybrid answer.
const DefinitionLabel = "Definition"

// View maps outcomes to displays.
type View struct {
	markdown markdown.Renderer
}

// NewView creates a View that delegates document answers to md.
func NewView(md markdown.Renderer) *View {
	return &View{markdown: md}
}

// Render returns the display for outcome. It has no side effects.
// It panics on an Outcome implementation it does not know; the Outcome set
// is closed, so that only happens when a variant is added without a case here.
func (v *View) Render(outcome query.Outcome) Display {
	switch o := outcome.(type) {
	case query.Document:
		return Display{Blocks: []Block{Prose{Markdown: v.markdown.Render(o.AnswerMarkdown)}}}
	case query.Tabular:
		return Display{Blocks: []Block{TableFromRows(o.Rows)}}
	case query.Hybrid:
		return Display{Blocks: []Block{
			Definition{Label: DefinitionLabel, Text: o.Definition},
			TableFromRows(o.Rows),
		}}
	case query.Failure:
		return Display{Blocks: []Block{Notice{Message: o.Message}}}
	default:
		panic(fmt.Sprintf("render: unhandled outcome %T", outcome))
	}
}

// TableFromRows builds a table under the first-row-governs-headers policy:
// the header is the first row's columns in that row's own order. Every row,
// including ones whose columns differ from the first, contributes its own
// values in its own order; nothing is padded, reordered or dropped.
// No rows yields a table with no header cells and no body rows.
func TableFromRows(rows []query.Row) Table {
	t := Table{Header: []string{}, Rows: make([][]string, 0, len(rows))}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0].Columns()
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = jsonutil.ToString(c.Value)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
