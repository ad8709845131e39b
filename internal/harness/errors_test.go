package harness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRendering(t *testing.T) {
	err := NewUnknownOperationError("findOne")
	assert.Equal(t, `UNKNOWN_OPERATION: no operation registered for "findOne"`, err.Error())

	err = NewUnrecognizedArgumentError("deleteOne", "hint")
	assert.Equal(t, `UNRECOGNIZED_ARGUMENT: unrecognized argument "hint" (op=deleteOne)`, err.Error())

	err = NewMismatchError("deleteOne", "deletedCount", "3", "2")
	assert.Equal(t, `ASSERTION_MISMATCH: aspect "deletedCount": expected 3, actual 2 (op=deleteOne)`, err.Error())
}

func TestCodeOfUnwraps(t *testing.T) {
	inner := NewInvalidShapeError("deleteOne", "extraField")
	wrapped := fmt.Errorf("running document: %w", inner)

	assert.Equal(t, ErrCodeInvalidTestShape, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsAuthoringError(t *testing.T) {
	assert.True(t, IsAuthoringError(NewInvalidShapeError("op", "f")))
	assert.True(t, IsAuthoringError(NewUnknownOperationError("op")))
	assert.True(t, IsAuthoringError(NewUnrecognizedArgumentError("op", "a")))
	assert.True(t, IsAuthoringError(NewUnrecognizedAspectError("op", "a")))

	assert.False(t, IsAuthoringError(NewMismatchError("op", "a", "1", "2")))
	assert.False(t, IsAuthoringError(NewCancelledError("op", nil)))
	assert.False(t, IsAuthoringError(fmt.Errorf("collaborator fault")))
}
