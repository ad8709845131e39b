// Package docval defines the structured value model used to encode test
// document input and expected output.
//
// Values form an immutable, typed tree of scalars, arrays, and documents.
// Documents are ORDER-PRESERVING: field iteration follows declaration order,
// which the harness relies on for argument binding and aspect dispatch.
//
// The model is deliberately closed. Value is a sealed interface - only
// String, Int, Float, Bool, Null, Array, and *Document implement it.
package docval

import "fmt"

// Value is a sealed interface representing a structured value.
// Only the types declared in this package implement it.
type Value interface {
	docValue() // Sealed - only these types implement it
}

// String represents a string value.
type String string

func (String) docValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) docValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) docValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) docValue() {}

// Null represents an explicit null value.
// Using an explicit type keeps the sealed interface total: a present-but-null
// field is distinct from an absent field.
type Null struct{}

func (Null) docValue() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) docValue() {}

// AsString extracts a string from v.
// Returns an error if v is not a String.
func AsString(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", fmt.Errorf("expected string, got %s", KindOf(v))
	}
	return string(s), nil
}

// AsInt64 extracts an int64 from v.
// Integral floats are accepted: document loaders for some encodings surface
// whole numbers as floats, and the harness compares counts as integers.
func AsInt64(v Value) (int64, error) {
	switch n := v.(type) {
	case Int:
		return int64(n), nil
	case Float:
		if float64(n) == float64(int64(n)) {
			return int64(n), nil
		}
		return 0, fmt.Errorf("expected integer, got non-integral float %v", float64(n))
	default:
		return 0, fmt.Errorf("expected integer, got %s", KindOf(v))
	}
}

// AsBool extracts a bool from v.
func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %s", KindOf(v))
	}
	return bool(b), nil
}

// AsDocument extracts a document from v.
func AsDocument(v Value) (*Document, error) {
	d, ok := v.(*Document)
	if !ok {
		return nil, fmt.Errorf("expected document, got %s", KindOf(v))
	}
	return d, nil
}

// AsArray extracts an array from v.
func AsArray(v Value) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %s", KindOf(v))
	}
	return a, nil
}

// KindOf returns a short name for the dynamic type of v, for error messages.
func KindOf(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case Array:
		return "array"
	case *Document:
		return "document"
	case nil:
		return "absent"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal reports whether two values are deeply equal.
// Comparison is strict by kind: Int(3) and Float(3.0) are not equal.
// Callers that need numeric coercion should normalize at decode time
// (the JSON decoder already folds integral numbers into Int).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Document:
		bv, ok := b.(*Document)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		// Documents compare by content, not field order: two filters with
		// the same fields in different order describe the same predicate.
		for _, f := range av.Fields() {
			other, present := bv.Lookup(f.Key)
			if !present || !Equal(f.Value, other) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return false
	}
}
