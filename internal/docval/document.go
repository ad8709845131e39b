package docval

// Field is a single key/value pair within a document.
type Field struct {
	Key   string
	Value Value
}

// Document is an order-preserving map of field names to values.
//
// Field order matters to the harness: argument binding and aspect dispatch
// both follow document declaration order. Lookup stays O(1) via an index
// maintained alongside the field slice.
//
// Documents are built once (by a decoder or NewDocument) and treated as
// immutable afterward. Append is the only mutator and is intended for
// construction only.
type Document struct {
	fields []Field
	index  map[string]int
}

func (*Document) docValue() {}

// NewDocument creates a document from fields in the given order.
// A duplicate key replaces the earlier value in place, keeping the
// original position.
func NewDocument(fields ...Field) *Document {
	d := &Document{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		d.Append(f.Key, f.Value)
	}
	return d
}

// F is a shorthand constructor for a Field.
// Example: NewDocument(F("filter", filterDoc), F("session", String("session0")))
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Append adds a field at the end of the document.
// If the key already exists, its value is replaced in place.
func (d *Document) Append(key string, value Value) {
	if i, ok := d.index[key]; ok {
		d.fields[i].Value = value
		return
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, Field{Key: key, Value: value})
}

// Lookup returns the value for key and whether the key is present.
func (d *Document) Lookup(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.fields[i].Value, true
}

// Fields returns the fields in declaration order.
// The returned slice must not be modified.
func (d *Document) Fields() []Field {
	if d == nil {
		return nil
	}
	return d.fields
}

// Keys returns the field names in declaration order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}
