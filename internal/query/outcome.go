package query

import (
	"bytes"
	"encoding/json"
)

// Wire discriminators used by the query service.
const (
	TypeDoc    = "doc"
	TypeData   = "data"
	TypeHybrid = "hybrid"
	// TypeError is synthesized by the client when a request fails.
	TypeError = "error"
)

// Kind identifies the active variant of an Outcome.
type Kind int

const (
	KindDocument Kind = iota
	KindTabular
	KindHybrid
	KindFailure
)

// AllKinds lists every Outcome variant. Renderers are tested against this
// list, so adding a variant without handling it fails the build's tests.
func AllKinds() []Kind {
	return []Kind{KindDocument, KindTabular, KindHybrid, KindFailure}
}

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindTabular:
		return "tabular"
	case KindHybrid:
		return "hybrid"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the settled result of one submission. It is a closed set:
// Document, Tabular, Hybrid and Failure are the only implementations.
type Outcome interface {
	Kind() Kind
	outcome()
}

// Document is a prose answer in markdown.
type Document struct {
	AnswerMarkdown string
}

// Tabular is a list of result rows.
type Tabular struct {
	Rows []Row
}

// Hybrid is a definition followed by result rows.
type Hybrid struct {
	Definition string
	Rows       []Row
}

// Failure describes why a submission produced no answer.
type Failure struct {
	Message string
}

func (Document) Kind() Kind { return KindDocument }
func (Tabular) Kind() Kind  { return KindTabular }
func (Hybrid) Kind() Kind   { return KindHybrid }
func (Failure) Kind() Kind  { return KindFailure }

func (Document) outcome() {}
func (Tabular) outcome()  {}
func (Hybrid) outcome()   {}
func (Failure) outcome()  {}

// MarshalJSON encodes the answer in the service's wire shape.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Answer string `json:"answer"`
	}{TypeDoc, d.AnswerMarkdown})
}

// MarshalJSON encodes the rows in the service's wire shape.
func (t Tabular) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Data []Row  `json:"data"`
	}{TypeData, nonNilRows(t.Rows)})
}

// MarshalJSON encodes the definition and rows in the service's wire shape.
func (h Hybrid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Definition string `json:"definition"`
		Data       []Row  `json:"data"`
	}{TypeHybrid, h.Definition, nonNilRows(h.Rows)})
}

// MarshalJSON encodes the failure as the client-synthesized error shape.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{TypeError, f.Message})
}

func nonNilRows(rows []Row) []Row {
	if rows == nil {
		return []Row{}
	}
	return rows
}

// Cell is one named value within a row.
type Cell struct {
	Column string
	Value  any
}

// Row is one result record. Cells keep the key order of the JSON object
// the row was decoded from.
type Row []Cell

// Columns returns the row's column names in order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, c := range r {
		cols[i] = c.Column
	}
	return cols
}

// Values returns the row's cell values in order.
func (r Row) Values() []any {
	vals := make([]any, len(r))
	for i, c := range r {
		vals[i] = c.Value
	}
	return vals
}

// MarshalJSON writes the row as a JSON object in cell order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
