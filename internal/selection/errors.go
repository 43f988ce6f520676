// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the sentinel wrapped by ConfigurationError.
	ErrConfiguration = errors.New("invalid selection configuration")
	// ErrNotInitialized is returned by a Controller that was not built by Create.
	ErrNotInitialized = errors.New("controller not initialized; use selection.Create")
)

// ConfigurationError is returned when a chooser or controller is constructed
// without a required collaborator.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
