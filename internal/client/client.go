// Package client defines the data-access surface the test interpreter
// drives. The interpreter consumes these interfaces; it never implements
// the data access itself. The reference implementation lives in
// internal/store, and the system actually under test supplies its own.
//
// Every operation is exposed through two entry points: a synchronous call
// and an asynchronous call returning a Future. Both take an optional
// Session (nil means session-less), which together give the four call
// shapes the interpreter must exercise uniformly: sync/async crossed with
// session-scoped/session-less.
package client

import (
	"context"

	"github.com/verdict-sh/verdict/internal/docval"
)

// Session is an opaque handle to an ambient transactional context.
//
// Sessions are created and owned by the surrounding test-runner context.
// The interpreter only references them by name; it never starts or ends
// them.
type Session interface {
	// ID returns a stable identifier for logging and diagnostics.
	ID() string
}

// Collection is the per-collection operation surface.
//
// A nil filter means "match everything" - the interpreter is permissive
// about an omitted filter argument and delegates that policy decision to
// the implementation.
//
// Implementations must honor ctx cancellation at the call boundary and
// must treat a nil Session as a session-less call.
type Collection interface {
	DeleteOne(ctx context.Context, sess Session, filter *docval.Document, opts *DeleteOptions) (*DeleteResult, error)
	DeleteOneAsync(ctx context.Context, sess Session, filter *docval.Document, opts *DeleteOptions) *Future[*DeleteResult]

	DeleteMany(ctx context.Context, sess Session, filter *docval.Document, opts *DeleteOptions) (*DeleteResult, error)
	DeleteManyAsync(ctx context.Context, sess Session, filter *docval.Document, opts *DeleteOptions) *Future[*DeleteResult]

	InsertOne(ctx context.Context, sess Session, document *docval.Document) (*InsertOneResult, error)
	InsertOneAsync(ctx context.Context, sess Session, document *docval.Document) *Future[*InsertOneResult]

	InsertMany(ctx context.Context, sess Session, documents []*docval.Document, opts *InsertManyOptions) (*InsertManyResult, error)
	InsertManyAsync(ctx context.Context, sess Session, documents []*docval.Document, opts *InsertManyOptions) *Future[*InsertManyResult]

	UpdateOne(ctx context.Context, sess Session, filter *docval.Document, update *docval.Document, opts *UpdateOptions) (*UpdateResult, error)
	UpdateOneAsync(ctx context.Context, sess Session, filter *docval.Document, update *docval.Document, opts *UpdateOptions) *Future[*UpdateResult]

	UpdateMany(ctx context.Context, sess Session, filter *docval.Document, update *docval.Document, opts *UpdateOptions) (*UpdateResult, error)
	UpdateManyAsync(ctx context.Context, sess Session, filter *docval.Document, update *docval.Document, opts *UpdateOptions) *Future[*UpdateResult]

	ReplaceOne(ctx context.Context, sess Session, filter *docval.Document, replacement *docval.Document, opts *ReplaceOptions) (*UpdateResult, error)
	ReplaceOneAsync(ctx context.Context, sess Session, filter *docval.Document, replacement *docval.Document, opts *ReplaceOptions) *Future[*UpdateResult]
}

// DeleteResult reports the outcome of a delete operation.
type DeleteResult struct {
	// DeletedCount is the number of documents removed.
	DeletedCount int64
}

// InsertOneResult reports the outcome of an insertOne operation.
type InsertOneResult struct {
	// InsertedID is the _id of the inserted document, generated by the
	// implementation when the document did not carry one.
	InsertedID docval.Value
}

// InsertManyResult reports the outcome of an insertMany operation.
type InsertManyResult struct {
	// InsertedIDs holds the _id of each inserted document, in input order.
	InsertedIDs []docval.Value
}

// UpdateResult reports the outcome of update and replace operations.
type UpdateResult struct {
	// MatchedCount is the number of documents the filter matched.
	MatchedCount int64

	// ModifiedCount is the number of documents actually changed.
	ModifiedCount int64

	// UpsertedCount is 1 when an upsert inserted a document, else 0.
	UpsertedCount int64

	// UpsertedID is the _id of the upserted document, nil if no upsert.
	UpsertedID docval.Value
}
