package client

// Collation configures locale-aware string comparison for filter matching.
type Collation struct {
	// Locale is a BCP 47 language tag (e.g. "en", "sv").
	Locale string

	// Strength selects comparison sensitivity:
	//   1 - primary: base characters only (case and diacritics ignored)
	//   2 - secondary: diacritics significant, case ignored
	//   3 - tertiary: case significant (default)
	Strength int

	// CaseLevel enables case comparison at strength 1.
	CaseLevel bool
}

// DeleteOptions configures deleteOne and deleteMany.
type DeleteOptions struct {
	Collation *Collation
}

// Delete returns a DeleteOptions with defaults applied.
func Delete() *DeleteOptions {
	return &DeleteOptions{}
}

// SetCollation sets the collation used for filter matching.
func (o *DeleteOptions) SetCollation(c *Collation) *DeleteOptions {
	o.Collation = c
	return o
}

// InsertManyOptions configures insertMany.
type InsertManyOptions struct {
	// Ordered stops at the first failing insert when true.
	Ordered bool
}

// InsertMany returns an InsertManyOptions with defaults applied.
// Inserts are ordered by default.
func InsertMany() *InsertManyOptions {
	return &InsertManyOptions{Ordered: true}
}

// SetOrdered sets whether inserts stop at the first failure.
func (o *InsertManyOptions) SetOrdered(ordered bool) *InsertManyOptions {
	o.Ordered = ordered
	return o
}

// UpdateOptions configures updateOne and updateMany.
type UpdateOptions struct {
	// Upsert inserts a new document when the filter matches nothing.
	Upsert    bool
	Collation *Collation
}

// Update returns an UpdateOptions with defaults applied.
// Upsert is off by default.
func Update() *UpdateOptions {
	return &UpdateOptions{}
}

// SetUpsert sets whether a non-matching filter inserts a new document.
func (o *UpdateOptions) SetUpsert(upsert bool) *UpdateOptions {
	o.Upsert = upsert
	return o
}

// SetCollation sets the collation used for filter matching.
func (o *UpdateOptions) SetCollation(c *Collation) *UpdateOptions {
	o.Collation = c
	return o
}

// ReplaceOptions configures replaceOne.
type ReplaceOptions struct {
	Upsert    bool
	Collation *Collation
}

// Replace returns a ReplaceOptions with defaults applied.
func Replace() *ReplaceOptions {
	return &ReplaceOptions{}
}

// SetUpsert sets whether a non-matching filter inserts the replacement.
func (o *ReplaceOptions) SetUpsert(upsert bool) *ReplaceOptions {
	o.Upsert = upsert
	return o
}

// SetCollation sets the collation used for filter matching.
func (o *ReplaceOptions) SetCollation(c *Collation) *ReplaceOptions {
	o.Collation = c
	return o
}
