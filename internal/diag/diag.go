// Package diag implements the two-severity reporting model used by the
// initialization pipelines. FATAL conditions are hcl.DiagError diagnostics,
// RECOVERABLE ones are hcl.DiagWarning. Components collect diagnostics and
// echo them to a Console; only the top-level driver turns a fatal report
// into process termination.
package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
)

const (
	ErrorPrefix = "*** Error *** "
	WarnPrefix  = "*** Warning *** "
)

// ExitFatal is the process exit code used after a fatal initialization error.
const ExitFatal = 1

// Console is the human-readable progress channel. It is the only feedback
// the user gets before structured logging has been pointed at the log dir.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole wraps w. A nil writer discards output.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w}
}

// Printf writes one progress line.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format+"\n", args...)
}

// Diagnostic writes d with the prefix matching its severity.
func (c *Console) Diagnostic(d *hcl.Diagnostic) {
	prefix := WarnPrefix
	if d.Severity == hcl.DiagError {
		prefix = ErrorPrefix
	}
	if d.Detail != "" {
		c.Printf("%s%s: %s", prefix, d.Summary, d.Detail)
		return
	}
	c.Printf("%s%s", prefix, d.Summary)
}

// Report collects diagnostics for one pipeline stage and echoes each of them
// to the console as it is added.
type Report struct {
	Console *Console
	Diags   hcl.Diagnostics
}

// NewReport creates a report bound to console.
func NewReport(console *Console) *Report {
	if console == nil {
		console = NewConsole(nil)
	}
	return &Report{Console: console}
}

// Progress prints an informational line; it does not add a diagnostic.
func (r *Report) Progress(format string, args ...any) {
	r.Console.Printf(format, args...)
}

// Warn records a recoverable condition.
func (r *Report) Warn(summary, detail string) {
	r.add(&hcl.Diagnostic{Severity: hcl.DiagWarning, Summary: summary, Detail: detail})
}

// Fatal records a condition that must end the session.
func (r *Report) Fatal(summary, detail string) {
	r.add(&hcl.Diagnostic{Severity: hcl.DiagError, Summary: summary, Detail: detail})
}

// Extend appends diagnostics produced elsewhere, echoing each one.
func (r *Report) Extend(diags hcl.Diagnostics) {
	for _, d := range diags {
		r.add(d)
	}
}

// HasErrors reports whether a fatal diagnostic has been recorded.
func (r *Report) HasErrors() bool {
	return r.Diags.HasErrors()
}

func (r *Report) add(d *hcl.Diagnostic) {
	r.Diags = append(r.Diags, d)
	r.Console.Diagnostic(d)
}

// FatalError is returned by a component when its report holds at least one
// fatal diagnostic.
type FatalError struct {
	Stage string
	Diags hcl.Diagnostics
}

func (e *FatalError) Error() string {
	var msgs []string
	for _, d := range e.Diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		if d.Subject != nil {
			msg = d.Subject.String() + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return fmt.Sprintf("%s: %s", e.Stage, strings.Join(msgs, "; "))
}

func (e *FatalError) Unwrap() error {
	return e.Diags
}

// AsFatal returns a *FatalError for diags when they contain an error, and nil
// otherwise.
func AsFatal(stage string, diags hcl.Diagnostics) error {
	if !diags.HasErrors() {
		return nil
	}
	return &FatalError{Stage: stage, Diags: diags}
}

// Warnings returns the recoverable subset of diags.
func Warnings(diags hcl.Diagnostics) hcl.Diagnostics {
	var out hcl.Diagnostics
	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			out = append(out, d)
		}
	}
	return out
}
