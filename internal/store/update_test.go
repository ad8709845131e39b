package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdict-sh/verdict/internal/docval"
)

func TestApplyUpdateSet(t *testing.T) {
	out, err := applyUpdate(doc(t, "_id: 1\nx: 1"), doc(t, "$set: { x: 9, y: 2 }"))
	require.NoError(t, err)

	assert.True(t, docval.Equal(out, doc(t, "_id: 1\nx: 9\ny: 2")))
	// Existing fields keep their position; new fields append
	assert.Equal(t, []string{"_id", "x", "y"}, out.Keys())
}

func TestApplyUpdateDoesNotMutateInput(t *testing.T) {
	orig := doc(t, "_id: 1\nx: 1")
	_, err := applyUpdate(orig, doc(t, "$set: { x: 9 }"))
	require.NoError(t, err)

	v, _ := orig.Lookup("x")
	assert.Equal(t, docval.Int(1), v)
}

func TestApplyUpdateInc(t *testing.T) {
	out, err := applyUpdate(doc(t, "x: 5"), doc(t, "$inc: { x: 3, fresh: 2 }"))
	require.NoError(t, err)

	x, _ := out.Lookup("x")
	assert.Equal(t, docval.Int(8), x)
	// Missing fields start at zero
	fresh, _ := out.Lookup("fresh")
	assert.Equal(t, docval.Int(2), fresh)
}

func TestApplyUpdateIncFloatContagion(t *testing.T) {
	out, err := applyUpdate(doc(t, "x: 5"), doc(t, "$inc: { x: 0.5 }"))
	require.NoError(t, err)
	x, _ := out.Lookup("x")
	assert.Equal(t, docval.Float(5.5), x)

	out, err = applyUpdate(doc(t, "x: 1.5"), doc(t, "$inc: { x: 1 }"))
	require.NoError(t, err)
	x, _ = out.Lookup("x")
	assert.Equal(t, docval.Float(2.5), x)
}

func TestApplyUpdateIncRejectsNonNumeric(t *testing.T) {
	_, err := applyUpdate(doc(t, "x: hello"), doc(t, "$inc: { x: 1 }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")

	_, err = applyUpdate(doc(t, "x: 1"), doc(t, "$inc: { x: up }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delta must be numeric")
}

func TestApplyUpdateUnset(t *testing.T) {
	out, err := applyUpdate(doc(t, "_id: 1\nx: 1\ny: 2"), doc(t, `$unset: { y: "" }`))
	require.NoError(t, err)
	assert.True(t, docval.Equal(out, doc(t, "_id: 1\nx: 1")))

	// Unsetting an absent field is a no-op
	out, err = applyUpdate(doc(t, "_id: 1"), doc(t, `$unset: { ghost: "" }`))
	require.NoError(t, err)
	assert.True(t, docval.Equal(out, doc(t, "_id: 1")))
}

func TestApplyUpdateRejectsPlainFields(t *testing.T) {
	_, err := applyUpdate(doc(t, "_id: 1"), doc(t, "x: 9"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use $set")
}

func TestApplyUpdateRejectsUnknownOperator(t *testing.T) {
	_, err := applyUpdate(doc(t, "_id: 1"), doc(t, "$rename: { x: y }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$rename")
}

func TestApplyUpdateOperatorNeedsDocument(t *testing.T) {
	_, err := applyUpdate(doc(t, "_id: 1"), doc(t, "$set: 5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$set")
}

func TestUpsertBase(t *testing.T) {
	base := upsertBase(doc(t, "_id: 1\nx: { $gt: 5 }\nkind: fresh"))
	assert.True(t, docval.Equal(base, doc(t, "_id: 1\nkind: fresh")))
}
