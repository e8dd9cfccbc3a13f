package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_KindsAreDistinct(t *testing.T) {
	variants := []Outcome{Document{}, Tabular{}, Hybrid{}, Failure{}}
	require.Len(t, variants, len(AllKinds()))
	for i, v := range variants {
		assert.Equal(t, AllKinds()[i], v.Kind())
	}
}

func TestOutcome_MarshalWireShape(t *testing.T) {
	rows := []Row{{{Column: "SKU", Value: "A1"}, {Column: "Qty", Value: json.Number("10")}}}

	tests := []struct {
		name string
		in   Outcome
		want string
	}{
		{"document", Document{AnswerMarkdown: "**hi**"}, `{"type":"doc","answer":"**hi**"}`},
		{"tabular", Tabular{Rows: rows}, `{"type":"data","data":[{"SKU":"A1","Qty":10}]}`},
		{"tabular nil rows", Tabular{}, `{"type":"data","data":[]}`},
		{"hybrid", Hybrid{Definition: "d", Rows: rows}, `{"type":"hybrid","definition":"d","data":[{"SKU":"A1","Qty":10}]}`},
		{"failure", Failure{Message: "boom"}, `{"type":"error","message":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRow_MarshalKeepsCellOrder(t *testing.T) {
	row := Row{{Column: "z", Value: 1}, {Column: "a", Value: nil}, {Column: "m", Value: json.RawMessage(`[1,2]`)}}
	got, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":null,"m":[1,2]}`, string(got))
}

func TestRow_Accessors(t *testing.T) {
	row := Row{{Column: "SKU", Value: "A1"}, {Column: "Qty", Value: json.Number("10")}}
	assert.Equal(t, []string{"SKU", "Qty"}, row.Columns())
	assert.Equal(t, []any{"A1", json.Number("10")}, row.Values())
}

func TestDecodeResponse_UnsupportedType(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"type":"chart"}`))
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "chart", unsupported.Type)
}
