package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/dynstruct"
)

// ParseJSON decodes a JSON document whose top level is an object.
// Key order follows the document. Whitespace-only input yields no fields.
func ParseJSON(data []byte) (dynstruct.Fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dynstruct.Fields{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to parse JSON", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: fmt.Sprintf("top level must be an object, got %v", tok),
		}
	}

	var fields dynstruct.Fields
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to read object key", Err: err}
		}
		key := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("failed to decode value for %q", key),
				Err:     err,
			}
		}
		fields = append(fields, dynstruct.F(key, convertNumbers(raw)))
	}

	// Closing brace, then nothing else
	if _, err := dec.Token(); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "unterminated object", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "trailing data after top-level object"}
	}

	if fields == nil {
		fields = dynstruct.Fields{}
	}
	return fields, nil
}

// convertNumbers replaces json.Number with int64 when integral and
// float64 otherwise, recursively.
func convertNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		for i, elem := range val {
			val[i] = convertNumbers(elem)
		}
		return val
	case map[string]any:
		for k, elem := range val {
			val[k] = convertNumbers(elem)
		}
		return val
	default:
		return v
	}
}
