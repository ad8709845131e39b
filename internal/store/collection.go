package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// Collection implements client.Collection over one named collection.
//
// Every asynchronous entry point is the synchronous call wrapped in a
// Future; both views share the same implementation, so outcomes are
// identical across call shapes by construction.
type Collection struct {
	store *Store
	db    string
	name  string
}

var _ client.Collection = (*Collection)(nil)

// row is one loaded document with its storage id.
type row struct {
	id  int64
	doc *docval.Document
}

// load reads the collection's documents in insertion order.
func (c *Collection) load(ctx context.Context, q querier) ([]row, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, doc FROM documents WHERE db = ? AND coll = ? ORDER BY id",
		c.db, c.name)
	if err != nil {
		return nil, fmt.Errorf("query collection %s.%s: %w", c.db, c.name, err)
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var id int64
		var body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		val, err := docval.UnmarshalJSON([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", id, err)
		}
		doc, err := docval.AsDocument(val)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", id, err)
		}
		out = append(out, row{id: id, doc: doc})
	}
	return out, rows.Err()
}

func (c *Collection) insertRow(ctx context.Context, q querier, doc *docval.Document) error {
	body, err := docval.MarshalJSON(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO documents (db, coll, doc) VALUES (?, ?, ?)",
		c.db, c.name, string(body))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (c *Collection) deleteRow(ctx context.Context, q querier, id int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

func (c *Collection) updateRow(ctx context.Context, q querier, id int64, doc *docval.Document) error {
	body, err := docval.MarshalJSON(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := q.ExecContext(ctx, "UPDATE documents SET doc = ? WHERE id = ?", string(body), id); err != nil {
		return fmt.Errorf("update document %d: %w", id, err)
	}
	return nil
}

// DeleteOne removes the first document matching filter.
func (c *Collection) DeleteOne(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) (*client.DeleteResult, error) {
	if opts == nil {
		opts = client.Delete()
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}
	docs, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}

	for _, r := range docs {
		ok, err := matchFilter(r.doc, filter, opts.Collation)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := c.deleteRow(ctx, q, r.id); err != nil {
				return nil, err
			}
			return &client.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &client.DeleteResult{DeletedCount: 0}, nil
}

// DeleteOneAsync is the asynchronous view of DeleteOne.
func (c *Collection) DeleteOneAsync(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) *client.Future[*client.DeleteResult] {
	return client.Go(func() (*client.DeleteResult, error) {
		return c.DeleteOne(ctx, sess, filter, opts)
	})
}

// DeleteMany removes every document matching filter.
func (c *Collection) DeleteMany(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) (*client.DeleteResult, error) {
	if opts == nil {
		opts = client.Delete()
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}
	docs, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}

	var deleted int64
	for _, r := range docs {
		ok, err := matchFilter(r.doc, filter, opts.Collation)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := c.deleteRow(ctx, q, r.id); err != nil {
				return nil, err
			}
			deleted++
		}
	}
	return &client.DeleteResult{DeletedCount: deleted}, nil
}

// DeleteManyAsync is the asynchronous view of DeleteMany.
func (c *Collection) DeleteManyAsync(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) *client.Future[*client.DeleteResult] {
	return client.Go(func() (*client.DeleteResult, error) {
		return c.DeleteMany(ctx, sess, filter, opts)
	})
}

// InsertOne stores one document, generating an _id when absent.
func (c *Collection) InsertOne(ctx context.Context, sess client.Session, document *docval.Document) (*client.InsertOneResult, error) {
	if document == nil {
		return nil, fmt.Errorf("insertOne requires a document")
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}

	stored, id := ensureID(document)
	if err := c.insertRow(ctx, q, stored); err != nil {
		return nil, err
	}
	return &client.InsertOneResult{InsertedID: id}, nil
}

// InsertOneAsync is the asynchronous view of InsertOne.
func (c *Collection) InsertOneAsync(ctx context.Context, sess client.Session, document *docval.Document) *client.Future[*client.InsertOneResult] {
	return client.Go(func() (*client.InsertOneResult, error) {
		return c.InsertOne(ctx, sess, document)
	})
}

// InsertMany stores documents in order. With Ordered (the default) the
// first failure stops the batch; already-inserted documents stay.
func (c *Collection) InsertMany(ctx context.Context, sess client.Session, documents []*docval.Document, opts *client.InsertManyOptions) (*client.InsertManyResult, error) {
	if opts == nil {
		opts = client.InsertMany()
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("insertMany requires at least one document")
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}

	result := &client.InsertManyResult{}
	var firstErr error
	for i, document := range documents {
		if document == nil {
			firstErr = fmt.Errorf("document %d is nil", i)
		} else {
			stored, id := ensureID(document)
			if err := c.insertRow(ctx, q, stored); err != nil {
				firstErr = err
			} else {
				result.InsertedIDs = append(result.InsertedIDs, id)
				continue
			}
		}
		if opts.Ordered {
			return result, firstErr
		}
	}
	if firstErr != nil {
		return result, firstErr
	}
	return result, nil
}

// InsertManyAsync is the asynchronous view of InsertMany.
func (c *Collection) InsertManyAsync(ctx context.Context, sess client.Session, documents []*docval.Document, opts *client.InsertManyOptions) *client.Future[*client.InsertManyResult] {
	return client.Go(func() (*client.InsertManyResult, error) {
		return c.InsertMany(ctx, sess, documents, opts)
	})
}

// UpdateOne applies update to the first document matching filter,
// upserting when configured and nothing matches.
func (c *Collection) UpdateOne(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) (*client.UpdateResult, error) {
	return c.applyUpdateOp(ctx, sess, filter, update, opts, false)
}

// UpdateOneAsync is the asynchronous view of UpdateOne.
func (c *Collection) UpdateOneAsync(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return c.UpdateOne(ctx, sess, filter, update, opts)
	})
}

// UpdateMany applies update to every document matching filter.
func (c *Collection) UpdateMany(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) (*client.UpdateResult, error) {
	return c.applyUpdateOp(ctx, sess, filter, update, opts, true)
}

// UpdateManyAsync is the asynchronous view of UpdateMany.
func (c *Collection) UpdateManyAsync(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return c.UpdateMany(ctx, sess, filter, update, opts)
	})
}

func (c *Collection) applyUpdateOp(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions, many bool) (*client.UpdateResult, error) {
	if opts == nil {
		opts = client.Update()
	}
	if update == nil {
		return nil, fmt.Errorf("update requires an update document")
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}
	docs, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &client.UpdateResult{}
	for _, r := range docs {
		ok, err := matchFilter(r.doc, filter, opts.Collation)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result.MatchedCount++

		updated, err := applyUpdate(r.doc, update)
		if err != nil {
			return nil, err
		}
		if !docval.Equal(r.doc, updated) {
			if err := c.updateRow(ctx, q, r.id, updated); err != nil {
				return nil, err
			}
			result.ModifiedCount++
		}
		if !many {
			break
		}
	}

	if result.MatchedCount == 0 && opts.Upsert {
		base := upsertBase(filter)
		seeded, err := applyUpdate(base, update)
		if err != nil {
			return nil, err
		}
		stored, id := ensureID(seeded)
		if err := c.insertRow(ctx, q, stored); err != nil {
			return nil, err
		}
		result.UpsertedCount = 1
		result.UpsertedID = id
	}

	return result, nil
}

// ReplaceOne replaces the first document matching filter with replacement,
// preserving the matched document's _id.
func (c *Collection) ReplaceOne(ctx context.Context, sess client.Session, filter, replacement *docval.Document, opts *client.ReplaceOptions) (*client.UpdateResult, error) {
	if opts == nil {
		opts = client.Replace()
	}
	if replacement == nil {
		return nil, fmt.Errorf("replaceOne requires a replacement document")
	}
	q, err := c.store.querier(sess)
	if err != nil {
		return nil, err
	}
	docs, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &client.UpdateResult{}
	for _, r := range docs {
		ok, err := matchFilter(r.doc, filter, opts.Collation)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result.MatchedCount = 1

		next := replacement
		if _, has := replacement.Lookup("_id"); !has {
			if id, ok := r.doc.Lookup("_id"); ok {
				next = withLeadingField(replacement, "_id", id)
			}
		}
		if !docval.Equal(r.doc, next) {
			if err := c.updateRow(ctx, q, r.id, next); err != nil {
				return nil, err
			}
			result.ModifiedCount = 1
		}
		return result, nil
	}

	if opts.Upsert {
		stored, id := ensureID(replacement)
		if err := c.insertRow(ctx, q, stored); err != nil {
			return nil, err
		}
		result.UpsertedCount = 1
		result.UpsertedID = id
	}
	return result, nil
}

// ReplaceOneAsync is the asynchronous view of ReplaceOne.
func (c *Collection) ReplaceOneAsync(ctx context.Context, sess client.Session, filter, replacement *docval.Document, opts *client.ReplaceOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return c.ReplaceOne(ctx, sess, filter, replacement, opts)
	})
}

// ensureID returns the document with an _id field, generating a uuid when
// absent, and the resulting id value.
func ensureID(doc *docval.Document) (*docval.Document, docval.Value) {
	if id, ok := doc.Lookup("_id"); ok {
		return doc, id
	}
	id := docval.String(uuid.NewString())
	return withLeadingField(doc, "_id", id), id
}

// withLeadingField returns a copy of doc with the field prepended.
func withLeadingField(doc *docval.Document, key string, value docval.Value) *docval.Document {
	out := docval.NewDocument(docval.F(key, value))
	for _, f := range doc.Fields() {
		out.Append(f.Key, f.Value)
	}
	return out
}

// upsertBase builds the seed document for an upsert from the filter's
// plain equality fields; operator conditions contribute nothing.
func upsertBase(filter *docval.Document) *docval.Document {
	base := docval.NewDocument()
	for _, f := range filter.Fields() {
		if cond, err := docval.AsDocument(f.Value); err == nil && isOperatorDoc(cond) {
			continue
		}
		base.Append(f.Key, f.Value)
	}
	return base
}
