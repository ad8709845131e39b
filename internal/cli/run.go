package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/harness"
	"github.com/verdict-sh/verdict/internal/store"
)

// Session names made available to test documents via the "session"
// argument. Two is enough to exercise session-scoped and cross-session
// behavior in one suite.
var sessionNames = []string{"session0", "session1"}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Async bool

	// OpenStore allows overriding the backing store constructor (for
	// testing). If nil, defaults to a throwaway store per test.
	OpenStore func() (*store.Store, error)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite-file>...",
		Short: "Execute test suites against the built-in store",
		Long: `Execute declarative test suites against the built-in document store.

Each test document runs against a fresh throwaway store seeded with the
suite's data section, so sibling tests never observe each other's writes.
Tests may scope operations to a transactional session by naming one of
the predefined sessions (session0, session1) in their arguments.

Example:
  verdict run ./suites/crud.yaml
  verdict run --async ./suites/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Async, "async", false, "run operations through the asynchronous call shape")

	return cmd
}

// suiteSummary is the per-suite payload for JSON output.
type suiteSummary struct {
	Description string        `json:"description"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Tests       []testSummary `json:"tests"`
}

type testSummary struct {
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	Pass  bool   `json:"pass"`
	Error string `json:"error,omitempty"`
}

func runSuites(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode := harness.Mode{Async: opts.Async}

	failed := false
	var summaries []suiteSummary

	for _, path := range paths {
		suite, err := harness.LoadSuite(path)
		if err != nil {
			_ = formatter.Error("SUITE_LOAD", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("load suite %s", path), err)
		}
		formatter.VerboseLog("loaded suite %q (%d tests) from %s", suite.Description, len(suite.Tests), path)

		factory := newTargetFactory(opts, suite, logger)
		report, err := harness.RunSuite(ctx, suite, mode, factory, harness.WithLogger(logger))
		if err != nil {
			_ = formatter.Error("SUITE_RUN", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("run suite %s", path), err)
		}

		if !report.Passed() {
			failed = true
		}

		if opts.Format == "json" {
			summaries = append(summaries, summarize(report))
		} else {
			report.Format(cmd.OutOrStdout())
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(summaries); err != nil {
			return WrapExitError(ExitCommandError, "write report", err)
		}
	}

	if failed {
		return NewExitError(ExitFailure, "one or more tests failed")
	}
	return nil
}

func summarize(report *harness.Report) suiteSummary {
	passed, failedCount := report.Counts()
	s := suiteSummary{
		Description: report.Description,
		Passed:      passed,
		Failed:      failedCount,
	}
	for _, out := range report.Outcomes {
		t := testSummary{Name: out.Name, Mode: out.Mode, Pass: out.Passed()}
		if out.Err != nil {
			t.Error = out.Err.Error()
		}
		s.Tests = append(s.Tests, t)
	}
	return s
}

// newTargetFactory builds a fresh store per test document: an isolated
// scratch database seeded with the suite's data section, plus the
// predefined transactional sessions.
func newTargetFactory(opts *RunOptions, suite *harness.Suite, logger *slog.Logger) harness.TargetFactory {
	open := opts.OpenStore
	if open == nil {
		open = func() (*store.Store, error) {
			return store.Open(":memory:")
		}
	}

	return func(ctx context.Context) (*harness.Target, func() error, error) {
		st, err := open()
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}

		coll := st.Collection("verdict", "items")
		for i, doc := range suite.Data {
			if _, err := coll.InsertOne(ctx, nil, doc); err != nil {
				st.Close()
				return nil, nil, fmt.Errorf("seed data document %d: %w", i, err)
			}
		}

		sessions := make(map[string]client.Session, len(sessionNames))
		var opened []*store.Session
		for _, name := range sessionNames {
			sess, err := st.StartSession(ctx)
			if err != nil {
				abortAll(opened, logger)
				st.Close()
				return nil, nil, fmt.Errorf("start %s: %w", name, err)
			}
			sessions[name] = sess
			opened = append(opened, sess)
		}

		target := &harness.Target{Collection: coll, Sessions: sessions}
		cleanup := func() error {
			abortAll(opened, logger)
			return st.Close()
		}
		return target, cleanup, nil
	}
}

// abortAll discards any session transactions still open at test end.
// An already-ended transaction is not an error worth surfacing.
func abortAll(sessions []*store.Session, logger *slog.Logger) {
	for _, sess := range sessions {
		if err := sess.Abort(); err != nil {
			logger.Debug("session abort", "session", sess.ID(), "error", err)
		}
	}
}
