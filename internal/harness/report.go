package harness

import (
	"fmt"
	"io"
)

// Report aggregates the outcomes of one suite execution.
type Report struct {
	Description string
	Outcomes    []Outcome
}

// Passed reports whether every test in the suite passed.
func (r *Report) Passed() bool {
	for _, out := range r.Outcomes {
		if !out.Passed() {
			return false
		}
	}
	return true
}

// Counts returns the number of passed and failed tests.
func (r *Report) Counts() (passed, failed int) {
	for _, out := range r.Outcomes {
		if out.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Format writes a deterministic plain-text rendering of the report.
// Deterministic output matters: the rendering is golden-tested and diffed.
func (r *Report) Format(w io.Writer) {
	fmt.Fprintf(w, "suite: %s\n", r.Description)
	for _, out := range r.Outcomes {
		name := out.Name
		if name == "" {
			name = "(unknown)"
		}
		if out.Passed() {
			fmt.Fprintf(w, "  pass %s [%s]\n", name, out.Mode)
		} else {
			fmt.Fprintf(w, "  fail %s [%s]: %v\n", name, out.Mode, out.Err)
		}
	}
	passed, failed := r.Counts()
	fmt.Fprintf(w, "%d run, %d passed, %d failed\n", len(r.Outcomes), passed, failed)
}
