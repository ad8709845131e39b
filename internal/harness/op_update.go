package harness

import (
	"context"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// updateAspects builds the shared aspect table for operations returning an
// UpdateResult. The result pointer is read through the getter at assert
// time, after Act has populated it.
func updateAspects(op string, result func() *client.UpdateResult) aspectTable {
	return aspectTable{
		"matchedCount": func(expected docval.Value) error {
			return compareInt64(op, "matchedCount", expected, result().MatchedCount)
		},
		"modifiedCount": func(expected docval.Value) error {
			return compareInt64(op, "modifiedCount", expected, result().ModifiedCount)
		},
		"upsertedCount": func(expected docval.Value) error {
			return compareInt64(op, "upsertedCount", expected, result().UpsertedCount)
		},
		"upsertedId": func(expected docval.Value) error {
			return compareValue(op, "upsertedId", expected, result().UpsertedID)
		},
	}
}

// updateOperation interprets updateOne and updateMany test documents; the
// two differ only in name and collaborator entry points.
//
// Recognized arguments: filter, update, upsert, collation, session (base).
// Recognized result aspects: matchedCount, modifiedCount, upsertedCount,
// upsertedId.
type updateOperation struct {
	opCore
	coll   client.Collection
	many   bool
	filter *docval.Document
	update *docval.Document
	opts   *client.UpdateOptions
	result *client.UpdateResult
}

func newUpdateOperation(name string, many bool, target *Target) Operation {
	op := &updateOperation{
		coll: target.Collection,
		many: many,
		opts: client.Update(),
	}
	op.opCore = newOpCore(name, target)
	op.args = argTable{
		"filter":    documentArg(&op.filter),
		"update":    documentArg(&op.update),
		"upsert":    boolArg(func(b bool) { op.opts.SetUpsert(b) }),
		"collation": collationArg(func(c *client.Collation) { op.opts.SetCollation(c) }),
	}
	op.aspects = updateAspects(name, func() *client.UpdateResult { return op.result })
	return op
}

func newUpdateOneOperation(target *Target) Operation {
	return newUpdateOperation("updateOne", false, target)
}

func newUpdateManyOperation(target *Target) Operation {
	return newUpdateOperation("updateMany", true, target)
}

func (op *updateOperation) Act(ctx context.Context, mode Mode) error {
	syncCall := op.coll.UpdateOne
	asyncCall := op.coll.UpdateOneAsync
	if op.many {
		syncCall = op.coll.UpdateMany
		asyncCall = op.coll.UpdateManyAsync
	}

	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.UpdateResult, error) {
			return syncCall(ctx, sess, op.filter, op.update, op.opts)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.UpdateResult] {
			return asyncCall(ctx, sess, op.filter, op.update, op.opts)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}

// replaceOneOperation interprets the replaceOne test document.
//
// Recognized arguments: filter, replacement, upsert, collation, session
// (base). Result aspects match the update operations.
type replaceOneOperation struct {
	opCore
	coll        client.Collection
	filter      *docval.Document
	replacement *docval.Document
	opts        *client.ReplaceOptions
	result      *client.UpdateResult
}

func newReplaceOneOperation(target *Target) Operation {
	op := &replaceOneOperation{
		coll: target.Collection,
		opts: client.Replace(),
	}
	op.opCore = newOpCore("replaceOne", target)
	op.args = argTable{
		"filter":      documentArg(&op.filter),
		"replacement": documentArg(&op.replacement),
		"upsert":      boolArg(func(b bool) { op.opts.SetUpsert(b) }),
		"collation":   collationArg(func(c *client.Collation) { op.opts.SetCollation(c) }),
	}
	op.aspects = updateAspects("replaceOne", func() *client.UpdateResult { return op.result })
	return op
}

func (op *replaceOneOperation) Act(ctx context.Context, mode Mode) error {
	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.UpdateResult, error) {
			return op.coll.ReplaceOne(ctx, sess, op.filter, op.replacement, op.opts)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.UpdateResult] {
			return op.coll.ReplaceOneAsync(ctx, sess, op.filter, op.replacement, op.opts)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}
