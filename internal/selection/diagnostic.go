// SPDX-License-Identifier: MPL-2.0

package selection

const (
	// SeverityWarning indicates a recovered problem.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a problem that left part of the result unusable.
	SeverityError Severity = "error"

	// CodeSourceUnavailable marks a source directory that was missing or
	// unreadable and was treated as empty.
	CodeSourceUnavailable = "source_unavailable"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem met while building a Controller. It is
	// returned to callers instead of being printed so the CLI decides how to
	// render it.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g. "source_unavailable").
		Code    string
		Message string
		// Path is the source directory or file concerned.
		Path string
		// Cause is the underlying error, if any.
		Cause error
	}
)
