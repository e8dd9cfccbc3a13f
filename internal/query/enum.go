package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownValueError reports a role or region name outside the fixed set.
type UnknownValueError struct {
	Kind  string // "role" or "region"
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

// parseNamed finds the member of all whose name matches s, ignoring case.
// On no match it returns fallback with an *UnknownValueError.
func parseNamed[T fmt.Stringer](kind, s string, all []T, fallback T) (T, error) {
	for _, v := range all {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return fallback, &UnknownValueError{Kind: kind, Value: s}
}

// decodeNamed reads a JSON string and parses it with parse.
func decodeNamed[T fmt.Stringer](data []byte, parse func(string) (T, error)) (T, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var zero T
		return zero, err
	}
	return parse(name)
}
