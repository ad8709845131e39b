package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
	"github.com/verdict-sh/verdict/internal/harness"
)

// ValidationIssue is one validation failure, located by suite and test.
type ValidationIssue struct {
	Suite   string `json:"suite"`
	Test    int    `json:"test"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <suite-file>...",
		Short: "Check suites for shape errors without executing them",
		Long: `Check test suites for authoring errors without executing any operation.

Each test document goes through registry lookup and argument binding
only: unknown operations, unrecognized arguments, and malformed values
are reported, but the store is never touched. Faster than run for
development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	var issues []ValidationIssue
	for _, path := range paths {
		suite, err := harness.LoadSuite(path)
		if err != nil {
			_ = formatter.Error("SUITE_LOAD", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("load suite %s", path), err)
		}

		formatter.VerboseLog("validating suite %q (%d tests)", suite.Description, len(suite.Tests))
		issues = append(issues, validateSuite(suite)...)
	}

	if len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}
	return outputValidateSuccess(formatter)
}

// validateSuite dry-runs every test document through registry lookup and
// argument binding against a detached target. No operation is executed.
func validateSuite(suite *harness.Suite) []ValidationIssue {
	target := validationTarget()
	registry := harness.DefaultRegistry()

	var issues []ValidationIssue
	for i, doc := range suite.Tests {
		name, err := arrangeOnly(registry, target, doc)
		if err != nil {
			issues = append(issues, ValidationIssue{
				Suite:   suite.Description,
				Test:    i,
				Name:    name,
				Code:    issueCode(err),
				Message: err.Error(),
			})
		}
	}
	return issues
}

func arrangeOnly(registry *harness.Registry, target *harness.Target, doc *docval.Document) (string, error) {
	name, err := harness.OperationName(doc)
	if err != nil {
		return "", err
	}
	op, err := registry.New(name, target)
	if err != nil {
		return name, err
	}
	return name, op.Arrange(doc)
}

func issueCode(err error) string {
	if code := harness.CodeOf(err); code != "" {
		return string(code)
	}
	return "INVALID_TEST_SHAPE"
}

// validationTarget builds a target with no backing collection. Binding a
// "session" argument still resolves against the predefined session names
// so valid suites do not fail the dry run.
func validationTarget() *harness.Target {
	sessions := make(map[string]client.Session, len(sessionNames))
	for _, name := range sessionNames {
		sessions[name] = detachedSession(name)
	}
	return &harness.Target{Sessions: sessions}
}

// detachedSession is a session handle that exists only to satisfy name
// resolution during validation.
type detachedSession string

func (s detachedSession) ID() string { return string(s) }

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ All suites valid")
	return nil
}

// outputValidationIssues outputs validation failures and maps them to
// exit code 1.
func outputValidationIssues(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "%s, test %d", issue.Suite, issue.Test)
		if issue.Name != "" {
			fmt.Fprintf(formatter.Writer, " (%s)", issue.Name)
		}
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
