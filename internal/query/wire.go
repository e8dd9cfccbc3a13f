package query

import (
	"encoding/json"
	"fmt"

	"supplyask/internal/jsonutil"
)

// wireResponse is the envelope shared by every service response.
type wireResponse struct {
	Type       string          `json:"type"`
	Answer     string          `json:"answer"`
	Definition string          `json:"definition"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

// UnsupportedTypeError reports a well-formed response with an unknown discriminator.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported response type %q", e.Type)
}

// DecodeResponse maps a service response body to an Outcome.
// A body the service marked as "error" decodes to Failure.
func DecodeResponse(body []byte) (Outcome, error) {
	var w wireResponse
	if err := jsonutil.UnmarshalWithContext(body, &w, "decode response"); err != nil {
		return nil, err
	}

	switch w.Type {
	case TypeDoc:
		return Document{AnswerMarkdown: w.Answer}, nil
	case TypeData:
		rows, err := decodeRows(w.Data)
		if err != nil {
			return nil, err
		}
		return Tabular{Rows: rows}, nil
	case TypeHybrid:
		rows, err := decodeRows(w.Data)
		if err != nil {
			return nil, err
		}
		return Hybrid{Definition: w.Definition, Rows: rows}, nil
	case TypeError:
		return Failure{Message: w.Message}, nil
	default:
		return nil, &UnsupportedTypeError{Type: w.Type}
	}
}

func decodeRows(data json.RawMessage) ([]Row, error) {
	objects, err := jsonutil.DecodeObjectArray(data, "decode response data")
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(objects))
	for i, fields := range objects {
		row := make(Row, len(fields))
		for j, f := range fields {
			row[j] = Cell{Column: f.Key, Value: f.Value}
		}
		rows[i] = row
	}
	return rows, nil
}
