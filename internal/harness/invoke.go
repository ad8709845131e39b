package harness

import (
	"context"

	"github.com/verdict-sh/verdict/internal/client"
)

// Mode selects the call shape for one Act invocation: synchronous or
// asynchronous, session-scoped or session-less. Both choices belong to the
// surrounding driver, not to the operation.
//
// Session here is the driver-supplied handle for the session-scoped shapes.
// When nil, the operation falls back to the session bound from the
// document's own session argument (if any); both nil means session-less.
type Mode struct {
	Async   bool
	Session client.Session
}

// String renders the mode for logs and reports.
func (m Mode) String() string {
	s := "sync"
	if m.Async {
		s = "async"
	}
	if m.Session != nil {
		s += "+session"
	}
	return s
}

// invoke executes exactly one of the four call shapes.
//
// The sync and async entry points must be two views of the same collaborator
// call with the same bound arguments, so the outcome is shape-invariant.
// Cancellation already observed at the boundary fails with
// OPERATION_CANCELLED before the collaborator sees the call.
func invoke[T any](
	ctx context.Context,
	op string,
	mode Mode,
	sess client.Session,
	sync func(ctx context.Context, sess client.Session) (T, error),
	async func(ctx context.Context, sess client.Session) *client.Future[T],
) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, NewCancelledError(op, err)
	}

	if mode.Async {
		return async(ctx, sess).Await(ctx)
	}
	return sync(ctx, sess)
}
