package harness

import (
	"fmt"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// Recognized top-level fields of every test document. Operations may extend
// the allow-list with operation-specific fields at construction time.
var baseDocumentFields = []string{"name", "arguments", "result"}

// argHandler binds one argument value into operation state.
type argHandler func(v docval.Value) error

// argTable maps argument names to their typed handlers.
// Registered once per operation at construction time; an unknown name falls
// through to the shared base handler, then fails.
type argTable map[string]argHandler

// aspectHandler checks one expected-result field against the captured
// outcome.
type aspectHandler func(expected docval.Value) error

// aspectTable maps result aspect names to their checks.
type aspectTable map[string]aspectHandler

// baseArgs is the shared handler for cross-cutting arguments recognized by
// every operation. It is a composable capability embedded in opCore, not a
// superclass: concrete operations consult it only after their own table
// misses.
type baseArgs struct {
	target  *Target
	session client.Session
}

// bind handles one cross-cutting argument. Returns false when the name is
// not a base argument.
func (b *baseArgs) bind(name string, v docval.Value) (bool, error) {
	switch name {
	case "session":
		sessName, err := docval.AsString(v)
		if err != nil {
			return true, fmt.Errorf("argument \"session\": %w", err)
		}
		sess, ok := b.target.Session(sessName)
		if !ok {
			return true, fmt.Errorf("session %q not found in session map", sessName)
		}
		b.session = sess
		return true, nil
	}
	return false, nil
}

// opCore is the shared interpreter skeleton embedded by every concrete
// operation: document-shape validation, argument binding, expected-result
// capture, and aspect dispatch. Concrete operations fill in args, aspects,
// and any extra recognized top-level fields, then implement Act.
type opCore struct {
	name    string
	target  *Target
	base    baseArgs
	args    argTable
	aspects aspectTable

	// extraFields extends the top-level allow-list beyond name/arguments/result.
	extraFields []string

	expected *docval.Document
	hasResult bool
}

func newOpCore(name string, target *Target) opCore {
	return opCore{
		name:   name,
		target: target,
		base:   baseArgs{target: target},
	}
}

// Arrange validates the document against the allow-list, then binds every
// argument in document field order. The full document is validated before
// any binding occurs, so an invalid shape never leaves partially bound
// state behind.
func (c *opCore) Arrange(doc *docval.Document) error {
	if err := c.validateShape(doc); err != nil {
		return err
	}

	if raw, ok := doc.Lookup("arguments"); ok {
		args, err := docval.AsDocument(raw)
		if err != nil {
			return &Error{
				Code:    ErrCodeInvalidTestShape,
				Message: fmt.Sprintf("arguments: %v", err),
				Op:      c.name,
				Field:   "arguments",
			}
		}
		for _, f := range args.Fields() {
			if err := c.bindArgument(f.Key, f.Value); err != nil {
				return err
			}
		}
	}

	if raw, ok := doc.Lookup("result"); ok {
		expected, err := docval.AsDocument(raw)
		if err != nil {
			return &Error{
				Code:    ErrCodeInvalidTestShape,
				Message: fmt.Sprintf("result: %v", err),
				Op:      c.name,
				Field:   "result",
			}
		}
		c.expected = expected
		c.hasResult = true
	}

	return nil
}

// validateShape checks every top-level field name against the allow-list.
func (c *opCore) validateShape(doc *docval.Document) error {
	for _, f := range doc.Fields() {
		if !c.recognizedField(f.Key) {
			return NewInvalidShapeError(c.name, f.Key)
		}
	}
	return nil
}

func (c *opCore) recognizedField(name string) bool {
	for _, known := range baseDocumentFields {
		if name == known {
			return true
		}
	}
	for _, known := range c.extraFields {
		if name == known {
			return true
		}
	}
	return false
}

// bindArgument dispatches one argument to the operation's table, falling
// back to the shared base handler.
func (c *opCore) bindArgument(name string, v docval.Value) error {
	if handler, ok := c.args[name]; ok {
		if err := handler(v); err != nil {
			return &Error{
				Code:    ErrCodeInvalidTestShape,
				Message: fmt.Sprintf("argument %q: %v", name, err),
				Op:      c.name,
				Field:   name,
				Err:     err,
			}
		}
		return nil
	}

	handled, err := c.base.bind(name, v)
	if err != nil {
		return &Error{
			Code:    ErrCodeInvalidTestShape,
			Message: err.Error(),
			Op:      c.name,
			Field:   name,
			Err:     err,
		}
	}
	if !handled {
		return NewUnrecognizedArgumentError(c.name, name)
	}
	return nil
}

// HasExpectedResult reports whether the document carried a result field.
func (c *opCore) HasExpectedResult() bool {
	return c.hasResult
}

// AssertResult dispatches every expected-result field to its aspect check,
// in field declaration order. An unrecognized aspect name is an authoring
// error; the first mismatch surfaces immediately.
func (c *opCore) AssertResult() error {
	if !c.hasResult {
		return nil
	}
	for _, f := range c.expected.Fields() {
		check, ok := c.aspects[f.Key]
		if !ok {
			return NewUnrecognizedAspectError(c.name, f.Key)
		}
		if err := check(f.Value); err != nil {
			return err
		}
	}
	return nil
}

// session selects the session for an Act invocation. A driver-supplied
// session on the mode wins; otherwise the session bound from the document's
// session argument, which may be nil for a session-less call.
func (c *opCore) session(mode Mode) client.Session {
	if mode.Session != nil {
		return mode.Session
	}
	return c.base.session
}
