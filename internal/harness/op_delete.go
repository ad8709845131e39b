package harness

import (
	"context"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// deleteOneOperation interprets the deleteOne test document.
//
// Recognized arguments: filter, collation, session (base).
// Recognized result aspects: deletedCount.
//
// The filter argument is not required: when absent, the collaborator
// receives a nil filter and decides what that means (the reference store
// treats it as match-all). This mirrors the permissive binding of the
// underlying driver surface rather than enforcing presence at arrange time.
type deleteOneOperation struct {
	opCore
	coll   client.Collection
	filter *docval.Document
	opts   *client.DeleteOptions
	result *client.DeleteResult
}

func newDeleteOneOperation(target *Target) Operation {
	op := &deleteOneOperation{
		coll: target.Collection,
		opts: client.Delete(),
	}
	op.opCore = newOpCore("deleteOne", target)
	op.args = argTable{
		"filter":    documentArg(&op.filter),
		"collation": collationArg(func(c *client.Collation) { op.opts.SetCollation(c) }),
	}
	op.aspects = aspectTable{
		"deletedCount": func(expected docval.Value) error {
			return compareInt64(op.name, "deletedCount", expected, op.result.DeletedCount)
		},
	}
	return op
}

func (op *deleteOneOperation) Act(ctx context.Context, mode Mode) error {
	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.DeleteResult, error) {
			return op.coll.DeleteOne(ctx, sess, op.filter, op.opts)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.DeleteResult] {
			return op.coll.DeleteOneAsync(ctx, sess, op.filter, op.opts)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}

// deleteManyOperation interprets the deleteMany test document.
// Same shape as deleteOne; only the collaborator entry points differ.
type deleteManyOperation struct {
	opCore
	coll   client.Collection
	filter *docval.Document
	opts   *client.DeleteOptions
	result *client.DeleteResult
}

func newDeleteManyOperation(target *Target) Operation {
	op := &deleteManyOperation{
		coll: target.Collection,
		opts: client.Delete(),
	}
	op.opCore = newOpCore("deleteMany", target)
	op.args = argTable{
		"filter":    documentArg(&op.filter),
		"collation": collationArg(func(c *client.Collation) { op.opts.SetCollation(c) }),
	}
	op.aspects = aspectTable{
		"deletedCount": func(expected docval.Value) error {
			return compareInt64(op.name, "deletedCount", expected, op.result.DeletedCount)
		},
	}
	return op
}

func (op *deleteManyOperation) Act(ctx context.Context, mode Mode) error {
	res, err := invoke(ctx, op.name, mode, op.session(mode),
		func(ctx context.Context, sess client.Session) (*client.DeleteResult, error) {
			return op.coll.DeleteMany(ctx, sess, op.filter, op.opts)
		},
		func(ctx context.Context, sess client.Session) *client.Future[*client.DeleteResult] {
			return op.coll.DeleteManyAsync(ctx, sess, op.filter, op.opts)
		},
	)
	if err != nil {
		return err
	}
	op.result = res
	return nil
}
