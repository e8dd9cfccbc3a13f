package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"supplyask/internal/markdown"
	"supplyask/internal/query"
)

func paint(o query.Outcome) string {
	return NewPainter(0).Paint(NewView(markdown.New()).Render(o))
}

func TestPaint_Document(t *testing.T) {
	out := paint(query.Document{AnswerMarkdown: "# Margins\n\nThe margin is **15%**.\n\n- one\n- two"})

	assert.Contains(t, out, "Margins")
	assert.Contains(t, out, "The margin is 15%.")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "• one\n• two")
}

func TestPaint_QuotedListKeepsBar(t *testing.T) {
	out := paint(query.Document{AnswerMarkdown: "> - quoted item"})
	assert.Contains(t, out, "│ • quoted item")
}

func TestPaint_TableKeepsHeaderCase(t *testing.T) {
	out := paint(query.Tabular{Rows: []query.Row{
		row("SKU", "A1", "Qty", json.Number("10")),
		row("SKU", "A2", "Qty", json.Number("5")),
	}})

	assert.Contains(t, out, "SKU")
	assert.Contains(t, out, "Qty")
	assert.NotContains(t, out, "QTY")
	assert.Contains(t, out, "A1")
	assert.Contains(t, out, "A2")
	assert.True(t, strings.HasSuffix(out, "(2 rows)"), "got:\n%s", out)
	assert.Less(t, strings.Index(out, "A1"), strings.Index(out, "A2"))
}

func TestPaint_EmptyTable(t *testing.T) {
	assert.Equal(t, "(0 rows)", paint(query.Tabular{}))
}

func TestPaint_HybridDefinitionFirst(t *testing.T) {
	out := paint(query.Hybrid{
		Definition: "Accuracy of forecast",
		Rows:       []query.Row{row("Metric", "Forecast Accuracy")},
	})

	def := strings.Index(out, "Definition: Accuracy of forecast")
	cell := strings.Index(out, "Forecast Accuracy")
	assert.GreaterOrEqual(t, def, 0, "got:\n%s", out)
	assert.Greater(t, cell, def)
	assert.True(t, strings.HasSuffix(out, "(1 row)"))
}

func TestPaint_FailureLiteral(t *testing.T) {
	out := paint(query.Failure{Message: "**bold**"})
	assert.Contains(t, out, "**bold**")
}

func TestPaint_Wraps(t *testing.T) {
	d := Display{Blocks: []Block{Prose{Markdown: markdown.New().Render(strings.Repeat("word ", 30))}}}
	out := NewPainter(20).Paint(d)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(strings.TrimRight(line, " ")), 20)
	}
}
