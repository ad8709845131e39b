package store

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// matchFilter reports whether doc satisfies filter.
//
// A nil or empty filter matches everything. Each filter field is either a
// plain value (equality) or an operator document such as {$gt: 5}. Only
// top-level fields are addressed; dotted paths are not supported.
func matchFilter(doc, filter *docval.Document, collation *client.Collation) (bool, error) {
	if filter == nil {
		return true, nil
	}
	for _, f := range filter.Fields() {
		ok, err := matchCondition(doc, f.Key, f.Value, collation)
		if err != nil {
			return false, fmt.Errorf("filter field %q: %w", f.Key, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// isOperatorDoc reports whether every key of cond is a $-operator.
func isOperatorDoc(cond *docval.Document) bool {
	if cond.Len() == 0 {
		return false
	}
	for _, f := range cond.Fields() {
		if !strings.HasPrefix(f.Key, "$") {
			return false
		}
	}
	return true
}

func matchCondition(doc *docval.Document, field string, cond docval.Value, collation *client.Collation) (bool, error) {
	actual, present := doc.Lookup(field)

	if condDoc, err := docval.AsDocument(cond); err == nil && isOperatorDoc(condDoc) {
		for _, op := range condDoc.Fields() {
			ok, err := matchOperator(op.Key, actual, present, op.Value, collation)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}

	// Plain equality.
	if !present {
		return false, nil
	}
	return valuesEqual(actual, cond, collation), nil
}

func matchOperator(op string, actual docval.Value, present bool, operand docval.Value, collation *client.Collation) (bool, error) {
	switch op {
	case "$eq":
		return present && valuesEqual(actual, operand, collation), nil
	case "$ne":
		// An absent field is "not equal" to any operand.
		return !present || !valuesEqual(actual, operand, collation), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		cmp, ok := compareValues(actual, operand, collation)
		if !ok {
			return false, nil
		}
		switch op {
		case "$gt":
			return cmp > 0, nil
		case "$gte":
			return cmp >= 0, nil
		case "$lt":
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case "$in":
		operands, err := docval.AsArray(operand)
		if err != nil {
			return false, fmt.Errorf("$in requires an array: %w", err)
		}
		if !present {
			return false, nil
		}
		for _, candidate := range operands {
			if valuesEqual(actual, candidate, collation) {
				return true, nil
			}
		}
		return false, nil
	case "$exists":
		want, err := docval.AsBool(operand)
		if err != nil {
			return false, fmt.Errorf("$exists requires a bool: %w", err)
		}
		return present == want, nil
	default:
		return false, fmt.Errorf("unsupported query operator %q", op)
	}
}

// valuesEqual compares two values for equality, honoring collation for
// strings and numeric equality across Int and Float.
func valuesEqual(a, b docval.Value, collation *client.Collation) bool {
	if as, aok := a.(docval.String); aok {
		if bs, bok := b.(docval.String); bok {
			if collation == nil {
				return as == bs
			}
			return newCollator(collation).CompareString(string(as), string(bs)) == 0
		}
		return false
	}
	if an, aok := numeric(a); aok {
		bn, bok := numeric(b)
		return bok && an == bn
	}
	return docval.Equal(a, b)
}

// compareValues orders two values when they are mutually comparable:
// both numeric or both strings. Returns ok=false for mixed or unordered
// kinds, which simply fails the range predicate.
func compareValues(a, b docval.Value, collation *client.Collation) (int, bool) {
	if an, aok := numeric(a); aok {
		bn, bok := numeric(b)
		if !bok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		default:
			return 0, true
		}
	}

	as, aok := a.(docval.String)
	bs, bok := b.(docval.String)
	if aok && bok {
		if collation != nil {
			return newCollator(collation).CompareString(string(as), string(bs)), true
		}
		return strings.Compare(string(as), string(bs)), true
	}
	return 0, false
}

func numeric(v docval.Value) (float64, bool) {
	switch n := v.(type) {
	case docval.Int:
		return float64(n), true
	case docval.Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// newCollator builds a collator for the given collation settings.
//
// Strength mapping:
//   1 - primary: case and diacritics ignored (unless CaseLevel)
//   2 - secondary: case ignored
//   3+ (default) - full comparison
func newCollator(c *client.Collation) *collate.Collator {
	tag := language.Make(c.Locale)
	var opts []collate.Option
	switch c.Strength {
	case 1:
		if c.CaseLevel {
			opts = append(opts, collate.IgnoreDiacritics)
		} else {
			opts = append(opts, collate.IgnoreCase, collate.IgnoreDiacritics)
		}
	case 2:
		opts = append(opts, collate.IgnoreCase)
	}
	return collate.New(tag, opts...)
}
