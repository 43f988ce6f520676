// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat is the sentinel wrapped by FormatError.
	ErrFormat = errors.New("invalid agenda definition")
	// ErrDanglingReference is the sentinel wrapped by DanglingReferenceError.
	ErrDanglingReference = errors.New("dangling extends reference")
	// ErrCircularExtension is the sentinel wrapped by CircularExtensionError.
	ErrCircularExtension = errors.New("circular extension")
)

type (
	// FormatError is returned when a definition file cannot be decoded or does
	// not have the shape of an agenda definition.
	FormatError struct {
		// Path is the file that failed to decode.
		Path string
		// Field is the offending field (e.g. "matcher[1].tiers"), empty when
		// the file as a whole is unparsable.
		Field string
		// Err is the underlying decoder or shape error.
		Err error
	}

	// DanglingReferenceError is returned when `extends` names a definition
	// that does not exist in any source.
	DanglingReferenceError struct {
		// Name is the missing identifier.
		Name string
		// From is the file of the definition holding the reference.
		From string
	}

	// CircularExtensionError is returned when an extension chain revisits a
	// definition that is already being compiled.
	CircularExtensionError struct {
		// Chain lists the definitions on the cycle, first element repeated last.
		Chain []string
	}
)

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports ErrFormat as a match so callers can test the class of failure.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *DanglingReferenceError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("%s: extends unknown agenda %q", e.From, e.Name)
	}
	return fmt.Sprintf("extends unknown agenda %q", e.Name)
}

// Unwrap returns ErrDanglingReference for errors.Is() compatibility.
func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

func (e *CircularExtensionError) Error() string {
	return "circular extension: " + strings.Join(e.Chain, " -> ")
}

// Unwrap returns ErrCircularExtension for errors.Is() compatibility.
func (e *CircularExtensionError) Unwrap() error { return ErrCircularExtension }

// formatErrorf builds a FormatError for a single field.
func formatErrorf(path, field, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Field: field, Err: fmt.Errorf(format, args...)}
}
