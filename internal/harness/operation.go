// Package harness implements the declarative test interpreter.
//
// A test document is a structured description of one test case: an operation
// name, an argument mapping, and an optional expected result. The harness
// maps the document to a concrete operation, binds its arguments, invokes
// the data-access collaborator through one of four call shapes, and checks
// the outcome against the expected result.
//
// Execution of one document is a single sequential unit of work:
//
//	arrange (validate + bind) -> act (exactly one call shape) -> assert
//
// Each Operation instance is constructed for exactly one document and is
// never shared or reused. The surrounding runner may execute independent
// documents concurrently; nothing in this package is shared mutable state.
package harness

import (
	"context"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// Operation is the three-phase contract every test operation implements.
//
// Lifecycle: constructed by the Registry, mutated only during Arrange,
// read-only during Act and AssertResult, discarded after the document
// completes.
type Operation interface {
	// Arrange validates the document shape and binds its arguments into
	// the operation's typed state. Must be called exactly once, first.
	Arrange(doc *docval.Document) error

	// Act invokes the collaborator through the call shape selected by mode
	// and captures the outcome. The surrounding driver guarantees at most
	// one Act per document.
	Act(ctx context.Context, mode Mode) error

	// AssertResult compares the captured outcome against the document's
	// expected result, aspect by aspect. Only called when the document
	// carried a result field.
	AssertResult() error

	// HasExpectedResult reports whether the document carried a result field.
	HasExpectedResult() bool
}

// Target carries the ambient context an operation is bound to at
// construction time: the collection under test and the session-name
// mapping supplied by the surrounding runner. It is immutable for the
// operation's lifetime.
type Target struct {
	// Collection is the data-access surface under test.
	Collection client.Collection

	// Sessions maps session names (e.g. "session0") to live handles.
	// Operations reference sessions by name, never create them.
	Sessions map[string]client.Session
}

// Session resolves a session name. Returns nil, false for unknown names.
func (t *Target) Session(name string) (client.Session, bool) {
	sess, ok := t.Sessions[name]
	return sess, ok
}

// Constructor builds a fresh Operation bound to the given target.
type Constructor func(target *Target) Operation

// Registry maps operation names to constructors.
//
// Adding a supported operation means registering one new constructor; the
// shared interpreter skeleton is untouched.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under the given operation name.
// A duplicate name replaces the earlier registration.
func (r *Registry) Register(name string, ctor Constructor) {
	r.constructors[name] = ctor
}

// New constructs a fresh operation instance for name, bound to target.
// Fails with an UnknownOperation error when name is not registered.
func (r *Registry) New(name string, target *Target) (Operation, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, NewUnknownOperationError(name)
	}
	return ctor(target), nil
}

// Names returns the registered operation names, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry with the full operation catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("deleteOne", newDeleteOneOperation)
	r.Register("deleteMany", newDeleteManyOperation)
	r.Register("insertOne", newInsertOneOperation)
	r.Register("insertMany", newInsertManyOperation)
	r.Register("updateOne", newUpdateOneOperation)
	r.Register("updateMany", newUpdateManyOperation)
	r.Register("replaceOne", newReplaceOneOperation)
	return r
}
