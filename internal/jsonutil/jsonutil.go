// Package jsonutil provides shared utilities for JSON parsing patterns:
// error wrapping, order-preserving object decoding, and value-to-text conversion.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// Field is one key/value pair of a JSON object.
// Value is one of: string, json.Number, bool, nil, or json.RawMessage
// (for nested objects and arrays).
type Field struct {
	Key   string
	Value any
}

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// DecodeObjectArray decodes a JSON array whose elements are objects,
// keeping every object's keys in document order.
// A missing or null array decodes to an empty slice.
func DecodeObjectArray(data []byte, context string) ([][]Field, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return [][]Field{}, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%s: expected array, got %s", context, describe(data))
	}

	out := [][]Field{}
	var elemErr error
	index := 0
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		defer func() { index++ }()
		if elemErr != nil {
			return
		}
		if err != nil {
			elemErr = fmt.Errorf("%s: element %d: %w", context, index, err)
			return
		}
		if dataType != jsonparser.Object {
			elemErr = fmt.Errorf("%s: element %d: expected object, got %s", context, index, dataType)
			return
		}
		fields, err := DecodeObject(value, fmt.Sprintf("%s: element %d", context, index))
		if err != nil {
			elemErr = err
			return
		}
		out = append(out, fields)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", context, err)
	}
	if elemErr != nil {
		return nil, elemErr
	}
	return out, nil
}

// DecodeObject decodes a single JSON object into its fields in document order.
// A repeated key keeps the position of its first occurrence and the value of
// its last, as JSON.parse does.
func DecodeObject(data []byte, context string) ([]Field, error) {
	var obj object
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		// ObjectEach hands keys over already unescaped.
		name := string(key)
		v, err := decodeValue(value, dataType)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		obj.set(name, v)
		return nil
	})
	if errors.Is(err, jsonparser.MalformedStringEscapeError) {
		// A key with a lone surrogate escape; jsonparser gives up on those.
		obj = object{}
		err = decodeObjectTokens(data, &obj)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", context, err)
	}
	if obj.fields == nil {
		return []Field{}, nil
	}
	return obj.fields, nil
}

// object collects fields, collapsing repeated keys.
type object struct {
	fields []Field
	index  map[string]int
}

func (o *object) set(key string, v any) {
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = v
		return
	}
	if o.index == nil {
		o.index = map[string]int{}
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: v})
}

// decodeObjectTokens is the encoding/json path for objects jsonparser rejects.
func decodeObjectTokens(data []byte, obj *object) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		v, err := decodeRaw(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		obj.set(name, v)
	}
	_, err := dec.Token()
	return err
}

func decodeRaw(raw json.RawMessage) (any, error) {
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		return raw, nil
	case 't':
		return true, nil
	case 'f':
		return false, nil
	case 'n':
		return nil, nil
	default:
		return json.Number(string(raw)), nil
	}
}

func decodeValue(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.String:
		return parseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Object, jsonparser.Array:
		return json.RawMessage(append([]byte(nil), value...)), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", dataType)
	}
}

// parseString unescapes the contents of a JSON string value.
// jsonparser rejects lone surrogate escapes such as \ud800; encoding/json
// accepts them and substitutes U+FFFD, so it decodes what jsonparser refuses.
func parseString(raw []byte) (string, error) {
	s, err := jsonparser.ParseString(raw)
	if err == nil {
		return s, nil
	}
	quoted := make([]byte, 0, len(raw)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, raw...)
	quoted = append(quoted, '"')
	if jerr := json.Unmarshal(quoted, &s); jerr != nil {
		return "", err
	}
	return s, nil
}

// describe names the JSON kind at the start of data for error messages.
func describe(data []byte) string {
	switch data[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

// ToString converts a decoded JSON value to a display string.
// Handles string, json.Number (verbatim), float64 (formatted as integer when
// whole), bool, nested JSON (compacted) and nil (empty string).
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Compact(&buf, val); err != nil {
			return string(val)
		}
		return buf.String()
	case float64:
		// Format as integer for whole numbers, otherwise as float
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
