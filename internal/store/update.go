package store

import (
	"fmt"
	"strings"

	"github.com/verdict-sh/verdict/internal/docval"
)

// applyUpdate produces the document resulting from applying an update
// specification to doc. The input document is never mutated.
//
// Supported operators: $set, $inc, $unset. Every top-level key of the
// update document must be an operator; a plain field is rejected so that
// update and replacement semantics stay distinct.
func applyUpdate(doc, update *docval.Document) (*docval.Document, error) {
	out := docval.NewDocument(doc.Fields()...)

	for _, op := range update.Fields() {
		if !strings.HasPrefix(op.Key, "$") {
			return nil, fmt.Errorf("update field %q is not an operator; use $set for plain assignments", op.Key)
		}
		spec, err := docval.AsDocument(op.Value)
		if err != nil {
			return nil, fmt.Errorf("update operator %q: %w", op.Key, err)
		}

		switch op.Key {
		case "$set":
			for _, f := range spec.Fields() {
				out.Append(f.Key, f.Value)
			}
		case "$inc":
			next, err := applyInc(out, spec)
			if err != nil {
				return nil, err
			}
			out = next
		case "$unset":
			next := docval.NewDocument()
			for _, f := range out.Fields() {
				if _, drop := spec.Lookup(f.Key); drop {
					continue
				}
				next.Append(f.Key, f.Value)
			}
			out = next
		default:
			return nil, fmt.Errorf("unsupported update operator %q", op.Key)
		}
	}
	return out, nil
}

// applyInc adds numeric deltas to fields, creating missing fields at zero.
func applyInc(doc, spec *docval.Document) (*docval.Document, error) {
	out := docval.NewDocument(doc.Fields()...)
	for _, f := range spec.Fields() {
		delta, ok := numeric(f.Value)
		if !ok {
			return nil, fmt.Errorf("$inc field %q: delta must be numeric, got %s", f.Key, docval.KindOf(f.Value))
		}

		current := 0.0
		isFloat := false
		if existing, present := out.Lookup(f.Key); present {
			cur, ok := numeric(existing)
			if !ok {
				return nil, fmt.Errorf("$inc field %q: existing value is %s, not numeric", f.Key, docval.KindOf(existing))
			}
			current = cur
			_, isFloat = existing.(docval.Float)
		}

		sum := current + delta
		_, deltaIsFloat := f.Value.(docval.Float)
		if isFloat || deltaIsFloat {
			out.Append(f.Key, docval.Float(sum))
		} else {
			out.Append(f.Key, docval.Int(int64(sum)))
		}
	}
	return out, nil
}
