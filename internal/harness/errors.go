package harness

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes harness errors.
//
// Every failure mode of a test document maps to exactly one code. Authoring
// errors (bad shape, unknown names) are distinct from assertion mismatches:
// a mismatch means the test ran and disagreed with the expectation, an
// authoring error means the document itself is malformed.
type ErrorCode string

const (
	// ErrCodeInvalidTestShape indicates a top-level or sub-option field name
	// outside the recognized allow-list. Raised during arrange, before any call.
	ErrCodeInvalidTestShape ErrorCode = "INVALID_TEST_SHAPE"

	// ErrCodeUnknownOperation indicates the document's name field matches no
	// registered operation.
	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"

	// ErrCodeUnrecognizedArgument indicates an argument name recognized by
	// neither the operation nor the shared base handler.
	ErrCodeUnrecognizedArgument ErrorCode = "UNRECOGNIZED_ARGUMENT"

	// ErrCodeUnrecognizedAspect indicates a result field with no registered
	// aspect check. An authoring error, not an assertion failure.
	ErrCodeUnrecognizedAspect ErrorCode = "UNRECOGNIZED_RESULT_ASPECT"

	// ErrCodeAssertionMismatch indicates an aspect check ran and the actual
	// value differed from the expected one.
	ErrCodeAssertionMismatch ErrorCode = "ASSERTION_MISMATCH"

	// ErrCodeCancelled indicates cancellation was observed at the call
	// boundary before the collaborator was invoked.
	ErrCodeCancelled ErrorCode = "OPERATION_CANCELLED"
)

// Error is a structured harness error.
//
// All errors surfaced per test document carry a code for categorization plus
// enough context (operation, offending field, expected/actual values) to
// diagnose the failure without re-running the document.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Op names the operation being interpreted, if known.
	Op string

	// Field names the offending document field, argument, or aspect.
	Field string

	// Expected and Actual hold rendered values for assertion mismatches.
	Expected string
	Actual   string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code == ErrCodeAssertionMismatch {
		msg = fmt.Sprintf("%s: expected %s, actual %s", e.Message, e.Expected, e.Actual)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, msg, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the harness error code from err.
// Returns "" when err is not a harness error.
func CodeOf(err error) ErrorCode {
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	return ""
}

// IsAuthoringError reports whether err describes a malformed test document
// rather than a failed expectation or a collaborator fault.
func IsAuthoringError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidTestShape, ErrCodeUnknownOperation,
		ErrCodeUnrecognizedArgument, ErrCodeUnrecognizedAspect:
		return true
	}
	return false
}

// NewInvalidShapeError creates an Error for a field outside the allow-list.
func NewInvalidShapeError(op, field string) *Error {
	return &Error{
		Code:    ErrCodeInvalidTestShape,
		Message: fmt.Sprintf("unrecognized field %q", field),
		Op:      op,
		Field:   field,
	}
}

// NewUnknownOperationError creates an Error for an unregistered operation name.
func NewUnknownOperationError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownOperation,
		Message: fmt.Sprintf("no operation registered for %q", name),
		Field:   name,
	}
}

// NewUnrecognizedArgumentError creates an Error for an unknown argument name.
func NewUnrecognizedArgumentError(op, arg string) *Error {
	return &Error{
		Code:    ErrCodeUnrecognizedArgument,
		Message: fmt.Sprintf("unrecognized argument %q", arg),
		Op:      op,
		Field:   arg,
	}
}

// NewUnrecognizedAspectError creates an Error for an unknown result aspect.
func NewUnrecognizedAspectError(op, aspect string) *Error {
	return &Error{
		Code:    ErrCodeUnrecognizedAspect,
		Message: fmt.Sprintf("unrecognized result aspect %q", aspect),
		Op:      op,
		Field:   aspect,
	}
}

// NewMismatchError creates an Error for a failed aspect check.
// Expected and actual are pre-rendered so the report needs no value model.
func NewMismatchError(op, aspect, expected, actual string) *Error {
	return &Error{
		Code:     ErrCodeAssertionMismatch,
		Message:  fmt.Sprintf("aspect %q", aspect),
		Op:       op,
		Field:    aspect,
		Expected: expected,
		Actual:   actual,
	}
}

// NewCancelledError creates an Error for cancellation at the call boundary.
func NewCancelledError(op string, cause error) *Error {
	return &Error{
		Code:    ErrCodeCancelled,
		Message: "cancelled before call",
		Op:      op,
		Err:     cause,
	}
}
