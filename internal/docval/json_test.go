package docval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONPreservesFieldOrder(t *testing.T) {
	d := NewDocument(
		F("z", Int(1)),
		F("a", String("two")),
		F("nested", NewDocument(F("y", Bool(true)), F("b", Null{}))),
	)

	b, err := MarshalJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"two","nested":{"y":true,"b":null}}`, string(b))
}

func TestUnmarshalJSONPreservesKeyOrder(t *testing.T) {
	v, err := UnmarshalJSON([]byte(`{"z":1,"a":2,"m":3}`))
	require.NoError(t, err)

	doc, err := AsDocument(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())
}

func TestUnmarshalJSONNumberFolding(t *testing.T) {
	v, err := UnmarshalJSON([]byte(`{"i":3,"f":3.5,"big":1e3}`))
	require.NoError(t, err)
	doc, err := AsDocument(v)
	require.NoError(t, err)

	i, _ := doc.Lookup("i")
	assert.Equal(t, Int(3), i)
	f, _ := doc.Lookup("f")
	assert.Equal(t, Float(3.5), f)
	// Exponent notation stays a float even when integral
	big, _ := doc.Lookup("big")
	assert.Equal(t, Float(1000), big)
}

func TestJSONRoundTrip(t *testing.T) {
	d := NewDocument(
		F("_id", Int(7)),
		F("tags", Array{String("a"), String("b")}),
		F("meta", NewDocument(F("active", Bool(false)))),
	)

	b, err := MarshalJSON(d)
	require.NoError(t, err)
	back, err := UnmarshalJSON(b)
	require.NoError(t, err)

	assert.True(t, Equal(d, back))
	doc, err := AsDocument(back)
	require.NoError(t, err)
	assert.Equal(t, d.Keys(), doc.Keys())
}

func TestUnmarshalJSONTrailingData(t *testing.T) {
	_, err := UnmarshalJSON([]byte(`{"a":1} {"b":2}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "<absent>", Format(nil))
	assert.Equal(t, `{"x":1}`, Format(NewDocument(F("x", Int(1)))))
	assert.Equal(t, `"s"`, Format(String("s")))
}
