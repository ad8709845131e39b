package docval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON serializes a Value to JSON, preserving document field order.
//
// The standard library marshals maps with sorted keys; documents here are
// ordered slices, so field order round-trips through the reference store.
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
		return nil
	case String:
		b, err := json.Marshal(string(val))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case Int:
		b, err := json.Marshal(int64(val))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case Float:
		b, err := json.Marshal(float64(val))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case Bool:
		b, err := json.Marshal(bool(val))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case *Document:
		buf.WriteByte('{')
		for i, f := range val.Fields() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return fmt.Errorf("marshal key %q: %w", f.Key, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return fmt.Errorf("field %q: %w", f.Key, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
}

// UnmarshalJSON parses JSON into a Value, preserving object key order.
//
// Numbers decode as Int when integral and in int64 range, Float otherwise,
// so counts written as 3 or 3.0 compare equal after a round trip.
func UnmarshalJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// readJSON decodes the next complete value from the token stream.
// A token-level walk is required because decoding into map[string]any
// would lose object key order.
func readJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := NewDocument()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := readJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", key, err)
				}
				doc.Append(key, val)
			}
			// Consume closing '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return doc, nil
		case '[':
			var arr Array
			for dec.More() {
				val, err := readJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("index %d: %w", len(arr), err)
				}
				arr = append(arr, val)
			}
			// Consume closing ']'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if arr == nil {
				arr = Array{}
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := t.Int64(); err == nil {
				return Int(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v (%T)", tok, tok)
	}
}

// Format renders a value as compact JSON for error messages and reports.
// Falls back to a %v rendering if marshaling fails.
func Format(v Value) string {
	if v == nil {
		return "<absent>"
	}
	b, err := MarshalJSON(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
