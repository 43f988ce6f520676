// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/internal/issue"
	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/charmbracelet/fang"
)

// ExitError signals a non-zero exit code without calling os.Exit in RunE
// handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// issueFor maps a failure to its catalog entry; zero means none applies.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, agenda.ErrFormat):
		return issue.AgendaParseErrorId
	case errors.Is(err, agenda.ErrDanglingReference):
		return issue.DanglingReferenceId
	case errors.Is(err, agenda.ErrCircularExtension):
		return issue.CircularExtensionId
	case errors.Is(err, fleet.ErrShipNotFound):
		return issue.ShipNotFoundId
	case errors.Is(err, fleet.ErrNoPlayerShip):
		return issue.ArenaInfoNotFoundId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	default:
		return 0
	}
}

func suggestionsFor(id issue.Id) []string {
	switch id {
	case issue.AgendaParseErrorId:
		return []string{"Fix the reported field; every agenda file accepts name, extends, matcher and topics"}
	case issue.DanglingReferenceId:
		return []string{"Create the parent agenda or correct the name after extends"}
	case issue.CircularExtensionId:
		return []string{"Remove one extends link from the reported chain"}
	case issue.ShipNotFoundId:
		return []string{"Import ship data with 'briefing catalog import <file>'"}
	case issue.PermissionDeniedId:
		return []string{"Check the permissions of the reported path"}
	default:
		return nil
	}
}

// actionable wraps err as an issue.ActionableError linked to its catalog
// entry. Errors that already carry context are returned unchanged.
func actionable(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	id := issueFor(err)
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id).
		WithSuggestions(suggestionsFor(id)...).
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for the user. ActionableErrors
// include their suggestions, and their error chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// defaultIssueStyle is used before any configuration is loaded.
const defaultIssueStyle = "auto"

// renderIssue writes the catalog entry linked to err, if any.
func renderIssue(w io.Writer, err error, style string) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// newErrorHandler prints errors through fang, followed by the issue catalog
// entry in verbose mode. Issues use the configured color scheme when a
// session got far enough to load it.
func newErrorHandler(flags *rootFlagValues) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		fang.DefaultErrorHandler(w, styles, errors.New(formatErrorForDisplay(err, flags.verbose)))
		if flags.verbose {
			style := flags.issueStyle
			if style == "" {
				style = defaultIssueStyle
			}
			renderIssue(w, err, style)
		}
	}
}
