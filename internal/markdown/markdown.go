// Package markdown converts markdown text into flat display blocks
// that terminal renderers can style without knowing markdown syntax.
package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Style is a set of inline text attributes.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleCode
	StyleStrike
	StyleLink
)

// Has reports whether s includes every attribute in other.
func (s Style) Has(other Style) bool {
	return s&other == other
}

// Span is a run of text with uniform style.
type Span struct {
	Text  string
	Style Style
}

// BlockKind identifies the layout of a Block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
	BlockQuote
	BlockRule
)

// Block is one vertically stacked unit of rendered markdown.
// Level is the heading level for headings, the nesting depth (1-based)
// for list items and the quote depth for quote lines. Marker is the bullet
// or number of a list item. Quote is the blockquote depth of any block.
type Block struct {
	Kind   BlockKind
	Level  int
	Marker string
	Quote  int
	Spans  []Span
}

// Text returns the block's spans concatenated without styling.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Renderer turns a markdown source into display blocks.
type Renderer interface {
	Render(source string) []Block
}

// Goldmark is the Renderer backed by goldmark's CommonMark parser.
type Goldmark struct {
	md goldmark.Markdown
}

// Ensure Goldmark implements Renderer.
var _ Renderer = (*Goldmark)(nil)

// New creates a Goldmark renderer with GFM strikethrough and linkify enabled.
func New() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		),
	}
}

// Render parses source and flattens it into blocks. It never fails:
// CommonMark assigns a meaning to every input.
func (g *Goldmark) Render(source string) []Block {
	src := []byte(source)
	doc := g.md.Parser().Parse(text.NewReader(src))
	w := &walker{source: src, current: -1}
	_ = ast.Walk(doc, w.walk)
	return w.blocks
}

// walker accumulates blocks during an AST walk.
type walker struct {
	source []byte
	blocks []Block

	current int // index into blocks, -1 when no block is open
	bold    int
	italic  int
	strike  int
	link    int
	quote   int

	lists      []*listState
	itemMarker string
}

type listState struct {
	ordered bool
	next    int
	marker  byte
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		if entering {
			w.emitMarker()
			w.open(Block{Kind: BlockHeading, Level: n.(*ast.Heading).Level})
		} else {
			w.close()
		}
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.openParagraph()
		} else {
			w.close()
		}
	case ast.KindBlockquote:
		if entering {
			w.emitMarker()
			w.quote++
		} else {
			w.quote--
		}
	case ast.KindList:
		if entering {
			w.emitMarker()
		}
		w.handleList(n.(*ast.List), entering)
	case ast.KindListItem:
		if entering {
			w.itemMarker = w.nextMarker()
		} else {
			w.emitMarker()
		}
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			w.emitMarker()
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	case ast.KindThematicBreak:
		if entering {
			w.emitMarker()
			w.open(Block{Kind: BlockRule})
			w.close()
		}
	case ast.KindText:
		if entering {
			w.text(n.(*ast.Text))
		}
	case ast.KindString:
		if entering {
			w.appendText(string(n.(*ast.String).Value))
		}
	case ast.KindEmphasis:
		if n.(*ast.Emphasis).Level >= 2 {
			w.bold += delta(entering)
		} else {
			w.italic += delta(entering)
		}
	case extast.KindStrikethrough:
		w.strike += delta(entering)
	case ast.KindLink:
		w.link += delta(entering)
	case ast.KindAutoLink:
		if entering {
			w.link++
			w.appendText(string(n.(*ast.AutoLink).Label(w.source)))
			w.link--
		}
		return ast.WalkSkipChildren, nil
	case ast.KindCodeSpan:
		if entering {
			w.codeSpan(n)
		}
		return ast.WalkSkipChildren, nil
	case ast.KindRawHTML:
		if entering {
			segs := n.(*ast.RawHTML).Segments
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				w.appendText(string(seg.Value(w.source)))
			}
		}
		return ast.WalkSkipChildren, nil
	case ast.KindHTMLBlock:
		if entering {
			w.emitMarker()
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func delta(entering bool) int {
	if entering {
		return 1
	}
	return -1
}

func (w *walker) open(b Block) {
	b.Quote = w.quote
	w.blocks = append(w.blocks, b)
	w.current = len(w.blocks) - 1
}

func (w *walker) close() {
	w.current = -1
}

// openParagraph starts a paragraph, a quote line, or the first paragraph of
// a list item. Later paragraphs of the same item render as plain paragraphs.
func (w *walker) openParagraph() {
	switch {
	case w.itemMarker != "":
		w.open(Block{Kind: BlockListItem, Level: len(w.lists), Marker: w.itemMarker})
		w.itemMarker = ""
	case w.quote > 0:
		w.open(Block{Kind: BlockQuote, Level: w.quote})
	default:
		w.open(Block{Kind: BlockParagraph})
	}
}

// emitMarker writes a pending list marker as an item of its own when the
// item does not start with a paragraph.
func (w *walker) emitMarker() {
	if w.itemMarker == "" {
		return
	}
	w.open(Block{Kind: BlockListItem, Level: len(w.lists), Marker: w.itemMarker})
	w.itemMarker = ""
	w.close()
}

func (w *walker) handleList(n *ast.List, entering bool) {
	if !entering {
		w.lists = w.lists[:len(w.lists)-1]
		return
	}
	start := n.Start
	if start == 0 {
		start = 1
	}
	w.lists = append(w.lists, &listState{ordered: n.IsOrdered(), next: start, marker: n.Marker})
}

func (w *walker) nextMarker() string {
	if len(w.lists) == 0 {
		return "•"
	}
	l := w.lists[len(w.lists)-1]
	if !l.ordered {
		return "•"
	}
	m := strconv.Itoa(l.next) + string(l.marker)
	l.next++
	return m
}

func (w *walker) style() Style {
	var s Style
	if w.bold > 0 {
		s |= StyleBold
	}
	if w.italic > 0 {
		s |= StyleItalic
	}
	if w.strike > 0 {
		s |= StyleStrike
	}
	if w.link > 0 {
		s |= StyleLink
	}
	return s
}

func (w *walker) text(t *ast.Text) {
	w.appendText(string(t.Segment.Value(w.source)))
	switch {
	case t.HardLineBreak():
		w.appendText("\n")
	case t.SoftLineBreak():
		w.appendText(" ")
	}
}

func (w *walker) appendText(s string) {
	w.appendSpan(Span{Text: s, Style: w.style()})
}

func (w *walker) codeSpan(n ast.Node) {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
		}
	}
	w.appendSpan(Span{Text: sb.String(), Style: w.style() | StyleCode})
}

func (w *walker) codeBlock(lines *text.Segments) {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	code := strings.TrimRight(sb.String(), "\n")
	w.open(Block{Kind: BlockCode, Spans: []Span{{Text: code, Style: StyleCode}}})
	w.close()
}

// appendSpan adds s to the current block, merging with the previous span
// when the style matches.
func (w *walker) appendSpan(s Span) {
	if s.Text == "" {
		return
	}
	if w.current < 0 {
		w.openParagraph()
	}
	b := &w.blocks[w.current]
	if n := len(b.Spans); n > 0 && b.Spans[n-1].Style == s.Style {
		b.Spans[n-1].Text += s.Text
		return
	}
	b.Spans = append(b.Spans, s)
}
