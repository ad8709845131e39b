package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/verdict-sh/verdict/internal/docval"
)

// Runner is the outer loop driving the three-phase contract for single
// test documents: registry lookup, arrange, act, assert.
//
// A Runner is bound to one Target. Every document gets a freshly
// constructed operation instance; nothing is shared across documents.
type Runner struct {
	target   *Target
	registry *Registry
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRegistry replaces the default operation catalog.
func WithRegistry(r *Registry) RunnerOption {
	return func(run *Runner) {
		run.registry = r
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(run *Runner) {
		run.logger = l
	}
}

// NewRunner creates a runner bound to target.
func NewRunner(target *Target, opts ...RunnerOption) *Runner {
	r := &Runner{
		target:   target,
		registry: DefaultRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome is the per-document verdict.
type Outcome struct {
	// Name is the operation name from the document, "" when unreadable.
	Name string

	// Mode describes the call shape that ran.
	Mode string

	// Err is nil on pass; otherwise the single reported failure.
	Err error
}

// Passed reports whether the document passed.
func (o Outcome) Passed() bool {
	return o.Err == nil
}

// Run executes one test document through the selected call shape.
//
// The document either fully passes or fails with one reported error; a
// failure never leaves shared state behind because the operation instance
// is discarded either way.
func (r *Runner) Run(ctx context.Context, doc *docval.Document, mode Mode) Outcome {
	name, err := OperationName(doc)
	if err != nil {
		return Outcome{Mode: mode.String(), Err: err}
	}
	out := Outcome{Name: name, Mode: mode.String()}

	op, err := r.registry.New(name, r.target)
	if err != nil {
		out.Err = err
		return out
	}

	if err := op.Arrange(doc); err != nil {
		r.logger.Debug("arrange failed", "op", name, "error", err)
		out.Err = err
		return out
	}

	if err := op.Act(ctx, mode); err != nil {
		r.logger.Debug("act failed", "op", name, "mode", mode.String(), "error", err)
		out.Err = err
		return out
	}

	if op.HasExpectedResult() {
		if err := op.AssertResult(); err != nil {
			r.logger.Debug("assertion failed", "op", name, "error", err)
			out.Err = err
			return out
		}
	}

	r.logger.Info("test passed", "op", name, "mode", mode.String())
	return out
}

// OperationName extracts and validates the document's name field.
func OperationName(doc *docval.Document) (string, error) {
	raw, ok := doc.Lookup("name")
	if !ok {
		return "", &Error{
			Code:    ErrCodeInvalidTestShape,
			Message: "missing required field \"name\"",
			Field:   "name",
		}
	}
	name, err := docval.AsString(raw)
	if err != nil {
		return "", &Error{
			Code:    ErrCodeInvalidTestShape,
			Message: fmt.Sprintf("field \"name\": %v", err),
			Field:   "name",
		}
	}
	return name, nil
}

// TargetFactory provides a fresh target (and its cleanup) per test
// document, so sibling documents never observe each other's state.
type TargetFactory func(ctx context.Context) (*Target, func() error, error)

// RunSuite executes every test in the suite through the given call shape,
// building each document's target from the factory.
func RunSuite(ctx context.Context, suite *Suite, mode Mode, factory TargetFactory, opts ...RunnerOption) (*Report, error) {
	report := &Report{Description: suite.Description}

	for i, doc := range suite.Tests {
		target, cleanup, err := factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("test %d: build target: %w", i, err)
		}

		out := NewRunner(target, opts...).Run(ctx, doc, mode)
		report.Outcomes = append(report.Outcomes, out)

		if err := cleanup(); err != nil {
			return nil, fmt.Errorf("test %d: cleanup: %w", i, err)
		}
	}

	return report, nil
}
