package docval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAMLPreservesKeyOrder(t *testing.T) {
	v, err := ParseYAML([]byte("zulu: 1\nalpha: 2\nmike: 3\n"))
	require.NoError(t, err)

	doc, err := AsDocument(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, doc.Keys())
}

func TestParseYAMLScalars(t *testing.T) {
	v, err := ParseYAML([]byte(`
str: hello
int: 42
float: 2.5
bool: true
null_field: null
`))
	require.NoError(t, err)
	doc, err := AsDocument(v)
	require.NoError(t, err)

	got, _ := doc.Lookup("str")
	assert.Equal(t, String("hello"), got)
	got, _ = doc.Lookup("int")
	assert.Equal(t, Int(42), got)
	got, _ = doc.Lookup("float")
	assert.Equal(t, Float(2.5), got)
	got, _ = doc.Lookup("bool")
	assert.Equal(t, Bool(true), got)
	got, _ = doc.Lookup("null_field")
	assert.Equal(t, Null{}, got)
}

func TestParseYAMLNested(t *testing.T) {
	v, err := ParseYAML([]byte(`
filter:
  _id: 2
items:
  - a: 1
  - b: 2
`))
	require.NoError(t, err)
	doc, err := AsDocument(v)
	require.NoError(t, err)

	raw, ok := doc.Lookup("filter")
	require.True(t, ok)
	filter, err := AsDocument(raw)
	require.NoError(t, err)
	id, _ := filter.Lookup("_id")
	assert.Equal(t, Int(2), id)

	raw, ok = doc.Lookup("items")
	require.True(t, ok)
	arr, err := AsArray(raw)
	require.NoError(t, err)
	assert.Len(t, arr, 2)
}

func TestParseYAMLDuplicateKeyFails(t *testing.T) {
	_, err := ParseYAML([]byte("a: 1\na: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestParseYAMLRejectsNonStringKeys(t *testing.T) {
	_, err := ParseYAML([]byte("1: one\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys must be strings")
}

func TestParseYAMLRejectsUnsupportedScalarTag(t *testing.T) {
	// Timestamps are outside the closed value model
	_, err := ParseYAML([]byte("when: 2024-01-01T00:00:00Z\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported YAML scalar tag")
}

func TestParseYAMLAliases(t *testing.T) {
	v, err := ParseYAML([]byte(`
base: &ref
  x: 1
copy: *ref
`))
	require.NoError(t, err)
	doc, err := AsDocument(v)
	require.NoError(t, err)

	base, _ := doc.Lookup("base")
	copied, _ := doc.Lookup("copy")
	assert.True(t, Equal(base, copied))
}
