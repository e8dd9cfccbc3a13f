package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalWithContext(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "valid JSON",
			data:    []byte(`{"name":"test"}`),
			wantErr: false,
		},
		{
			name:    "invalid JSON",
			data:    []byte(`not json`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v TestStruct
			err := UnmarshalWithContext(tt.data, &v, "test context")
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalWithContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil {
				assert.Contains(t, err.Error(), "test context")
			}
			if !tt.wantErr && v.Name != "test" {
				t.Errorf("UnmarshalWithContext() v.Name = %q, want %q", v.Name, "test")
			}
		})
	}
}

func TestDecodeObject_PreservesKeyOrder(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"zeta":1,"alpha":"a","mid":true,"none":null}`), "row")
	require.NoError(t, err)

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid", "none"}, keys)
	assert.Equal(t, json.Number("1"), fields[0].Value)
	assert.Equal(t, "a", fields[1].Value)
	assert.Equal(t, true, fields[2].Value)
	assert.Nil(t, fields[3].Value)
}

func TestDecodeObject_EscapedStrings(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"Order \"Region\"":"South\nwest"}`), "row")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, `Order "Region"`, fields[0].Key)
	assert.Equal(t, "South\nwest", fields[0].Value)
}

func TestDecodeObject_LoneSurrogates(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"k":"\ud800","\udc00x":"ok \ud83d\ude00"}`), "row")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "\ufffd", fields[0].Value)
	assert.Equal(t, "\ufffdx", fields[1].Key)
	assert.Equal(t, "ok \U0001F600", fields[1].Value)
}

func TestDecodeObject_EscapedKeysUnescapedOnce(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"a\\b":1,"\ud800":2,"\ud800":3}`), "row")
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Key: `a\b`, Value: json.Number("1")},
		{Key: "\ufffd", Value: json.Number("3")},
	}, fields)
}

func TestDecodeObject_DuplicateKeys(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"a":1,"b":"x","a":2}`), "row")
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Key: "a", Value: json.Number("2")},
		{Key: "b", Value: "x"},
	}, fields)
}

func TestDecodeObject_NestedValuesStayRaw(t *testing.T) {
	fields, err := DecodeObject([]byte(`{"tags":["a", "b"],"meta":{"k": 1}}`), "row")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, `["a","b"]`, ToString(fields[0].Value))
	assert.Equal(t, `{"k":1}`, ToString(fields[1].Value))
}

func TestDecodeObjectArray(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantRows int
		wantErr  bool
	}{
		{name: "two rows", data: `[{"SKU":"A1","Qty":10},{"SKU":"A2","Qty":5}]`, wantRows: 2},
		{name: "empty array", data: `[]`, wantRows: 0},
		{name: "whitespace empty array", data: "  [ ]\n", wantRows: 0},
		{name: "null", data: `null`, wantRows: 0},
		{name: "missing", data: ``, wantRows: 0},
		{name: "not an array", data: `{"SKU":"A1"}`, wantErr: true},
		{name: "scalar element", data: `[{"SKU":"A1"}, 3]`, wantErr: true},
		{name: "truncated", data: `[{"SKU":"A1"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := DecodeObjectArray([]byte(tt.data), "data")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "data")
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
		})
	}
}

func TestDecodeObjectArray_RowOrderAndValues(t *testing.T) {
	rows, err := DecodeObjectArray([]byte(`[{"SKU":"A1","Qty":10},{"Qty":5,"SKU":"A2"}]`), "data")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []Field{{Key: "SKU", Value: "A1"}, {Key: "Qty", Value: json.Number("10")}}, rows[0])
	// Each row keeps its own key order.
	assert.Equal(t, []Field{{Key: "Qty", Value: json.Number("5")}, {Key: "SKU", Value: "A2"}}, rows[1])
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"json number int", json.Number("10"), "10"},
		{"json number decimal", json.Number("100.50"), "100.50"},
		{"float64 whole", 42.0, "42"},
		{"float64 fraction", 3.14, "3.14"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"raw json", json.RawMessage(`{ "a" : 1 }`), `{"a":1}`},
		{"int", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.v); got != tt.want {
				t.Errorf("ToString(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
