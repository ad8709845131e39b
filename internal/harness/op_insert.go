package harness

import (
	"context"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// insertOneOperation interprets the insertOne test document.
//
// Recognized arguments: document, session (base).
// Recognized result aspects: insertedId.
type insertOneOperation struct {
	opCore
	coll     client.Collection
	document *docval.Document
	result   *client.InsertOneResult
}

func newInsertOneOperation(target *Target) Operation {
	op := &insertOneOperation{coll: target.Collection}
	op.opCore = newOpCore("insertOne", target)
	op.args = argTable{
		"document": documentArg(&op.document),
	}
	op.aspects = aspectTable{
		"insertedId": func(expected docval.Value) error {
			return compareValue(op.name, "insertedId", expected, op.result.InsertedID)
		},
	}
	return op
}

func (op *insertOneOperation) Act(ctx context.Context, mode Mode) error {
	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.InsertOneResult, error) {
			return op.coll.InsertOne(ctx, sess, op.document)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.InsertOneResult] {
			return op.coll.InsertOneAsync(ctx, sess, op.document)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}

// insertManyOperation interprets the insertMany test document.
//
// Recognized arguments: documents, ordered, session (base).
// Recognized result aspects: insertedCount, insertedIds.
type insertManyOperation struct {
	opCore
	coll      client.Collection
	documents []*docval.Document
	opts      *client.InsertManyOptions
	result    *client.InsertManyResult
}

func newInsertManyOperation(target *Target) Operation {
	op := &insertManyOperation{
		coll: target.Collection,
		opts: client.InsertMany(),
	}
	op.opCore = newOpCore("insertMany", target)
	op.args = argTable{
		"documents": documentListArg(&op.documents),
		"ordered":   boolArg(func(b bool) { op.opts.SetOrdered(b) }),
	}
	op.aspects = aspectTable{
		"insertedCount": func(expected docval.Value) error {
			return compareInt64(op.name, "insertedCount", expected, int64(len(op.result.InsertedIDs)))
		},
		"insertedIds": func(expected docval.Value) error {
			return compareValueList(op.name, "insertedIds", expected, op.result.InsertedIDs)
		},
	}
	return op
}

func (op *insertManyOperation) Act(ctx context.Context, mode Mode) error {
	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.InsertManyResult, error) {
			return op.coll.InsertMany(ctx, sess, op.documents, op.opts)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.InsertManyResult] {
			return op.coll.InsertManyAsync(ctx, sess, op.documents, op.opts)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}
