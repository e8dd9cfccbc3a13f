// Package render maps query outcomes to display structures and paints
// those structures for the terminal.
//
// Render is pure and total: every Outcome, including empty result sets,
// produces a Display. Painting is a separate step so the mapping can be
// tested without terminal styling.
package render

import "supplyask/internal/markdown"

// Display is the content of the response panel, top to bottom.
type Display struct {
	Blocks []Block
}

// Empty reports whether there is nothing to show.
func (d Display) Empty() bool {
	return len(d.Blocks) == 0
}

// Block is one element of a Display. The set is closed: Prose, Definition,
// Table and Notice.
type Block interface {
	block()
}

// Prose is markdown already converted to display blocks.
type Prose struct {
	Markdown []markdown.Block
}

// Definition is labelled, emphasized prose shown above a hybrid table.
type Definition struct {
	Label string
	Text  string
}

// Table is a header row plus body rows of display text.
// Body rows may have a different cell count than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Notice is a plain-text error message. It is never interpreted as markdown.
type Notice struct {
	Message string
}

func (Prose) block()      {}
func (Definition) block() {}
func (Table) block()      {}
func (Notice) block()     {}
