// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrInvalidWatchConfig is the sentinel wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the agenda source directories. Each one is watched without
		// descending into subdirectories. A directory that does not exist yet
		// is picked up once it is created.
		Dirs []string

		// Files are individual files watched in addition to Dirs, such as the
		// arena info file written by the game client.
		Files []string

		// Patterns are doublestar globs matched against the base name of a
		// file inside one of Dirs. Matching is case-insensitive. An empty
		// slice accepts every non-ignored file.
		Patterns []string

		// Ignore are additional base-name globs that never trigger callbacks.
		// They are merged with the built-in default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the sorted
		// list of changed paths. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives warnings and callback errors. nil logs to stderr.
		Logger *log.Logger
	}

	// InvalidWatchConfigError collects every invalid field of a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate checks every path and pattern of the config. The zero value is
// valid.
func (c Config) Validate() error {
	var errs []error
	for i, dir := range c.Dirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("dirs[%d]: empty path", i))
		}
	}
	for i, file := range c.Files {
		if strings.TrimSpace(file) == "" {
			errs = append(errs, fmt.Errorf("files[%d]: empty path", i))
		}
	}
	errs = append(errs, validatePatterns(c.Patterns, "patterns")...)
	errs = append(errs, validatePatterns(c.Ignore, "ignore")...)
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// PatternsFor turns file extensions such as ".yaml" into base-name globs.
func PatternsFor(exts []string) []string {
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		patterns = append(patterns, "*"+ext)
	}
	slices.Sort(patterns)
	return slices.Compact(patterns)
}

func validatePatterns(patterns []string, label string) []error {
	var errs []error
	for i, pat := range patterns {
		if pat == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: empty pattern", label, i))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("%s[%d]: invalid pattern %q: %w", label, i, pat, doublestar.ErrBadPattern))
		}
	}
	return errs
}
