package harness

import (
	"fmt"

	"github.com/verdict-sh/verdict/internal/docval"
)

// Shared aspect-check helpers. Each compares one expected value against one
// outcome field using exact equality and reports a mismatch with both values
// rendered.

// compareInt64 checks an integer-valued aspect such as deletedCount.
func compareInt64(op, aspect string, expected docval.Value, actual int64) error {
	want, err := docval.AsInt64(expected)
	if err != nil {
		return &Error{
			Code:    ErrCodeInvalidTestShape,
			Message: fmt.Sprintf("aspect %q: %v", aspect, err),
			Op:      op,
			Field:   aspect,
		}
	}
	if want != actual {
		return NewMismatchError(op, aspect,
			fmt.Sprintf("%d", want), fmt.Sprintf("%d", actual))
	}
	return nil
}

// compareValue checks an aspect whose outcome is itself a structured value,
// such as insertedId.
func compareValue(op, aspect string, expected, actual docval.Value) error {
	if !docval.Equal(expected, actual) {
		return NewMismatchError(op, aspect,
			docval.Format(expected), docval.Format(actual))
	}
	return nil
}

// compareValueList checks an aspect whose outcome is an ordered list of
// values, such as insertedIds.
func compareValueList(op, aspect string, expected docval.Value, actual []docval.Value) error {
	want, err := docval.AsArray(expected)
	if err != nil {
		return &Error{
			Code:    ErrCodeInvalidTestShape,
			Message: fmt.Sprintf("aspect %q: %v", aspect, err),
			Op:      op,
			Field:   aspect,
		}
	}
	return compareValue(op, aspect, want, docval.Array(actual))
}
