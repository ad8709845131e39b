package docval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsInt64(t *testing.T) {
	n, err := AsInt64(Int(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	// Integral floats fold into int64
	n, err = AsInt64(Float(3.0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = AsInt64(Float(3.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-integral")

	_, err = AsInt64(String("3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected integer, got string")
}

func TestAsStringRejectsOtherKinds(t *testing.T) {
	s, err := AsString(String("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = AsString(Int(1))
	require.Error(t, err)
}

func TestEqualStrictByKind(t *testing.T) {
	assert.True(t, Equal(Int(3), Int(3)))
	assert.False(t, Equal(Int(3), Int(4)))

	// No numeric coercion at comparison time
	assert.False(t, Equal(Int(3), Float(3.0)))

	assert.True(t, Equal(Null{}, Null{}))
	assert.False(t, Equal(Null{}, Int(0)))
	assert.False(t, Equal(String("1"), Int(1)))
}

func TestEqualArrays(t *testing.T) {
	a := Array{Int(1), String("x")}
	assert.True(t, Equal(a, Array{Int(1), String("x")}))
	assert.False(t, Equal(a, Array{String("x"), Int(1)}))
	assert.False(t, Equal(a, Array{Int(1)}))
}

func TestEqualDocumentsIgnoreFieldOrder(t *testing.T) {
	a := NewDocument(F("x", Int(1)), F("y", Int(2)))
	b := NewDocument(F("y", Int(2)), F("x", Int(1)))
	assert.True(t, Equal(a, b))

	c := NewDocument(F("x", Int(1)), F("y", Int(3)))
	assert.False(t, Equal(a, c))

	d := NewDocument(F("x", Int(1)))
	assert.False(t, Equal(a, d))
}

func TestEqualNestedDocuments(t *testing.T) {
	a := NewDocument(F("f", NewDocument(F("inner", Bool(true)))))
	b := NewDocument(F("f", NewDocument(F("inner", Bool(true)))))
	assert.True(t, Equal(a, b))

	c := NewDocument(F("f", NewDocument(F("inner", Bool(false)))))
	assert.False(t, Equal(a, c))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "string", KindOf(String("")))
	assert.Equal(t, "int", KindOf(Int(0)))
	assert.Equal(t, "float", KindOf(Float(0)))
	assert.Equal(t, "bool", KindOf(Bool(false)))
	assert.Equal(t, "null", KindOf(Null{}))
	assert.Equal(t, "array", KindOf(Array{}))
	assert.Equal(t, "document", KindOf(NewDocument()))
	assert.Equal(t, "absent", KindOf(nil))
}
