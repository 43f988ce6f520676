// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultDebounce is the default quiet period of the watch command.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette of rendered output.
	ColorScheme string

	// LogLevel is the minimum level of log output.
	LogLevel string

	// InvalidValueError reports an unrecognized enumeration value.
	InvalidValueError struct {
		Field string
		Value string
		Err   error
	}

	// InvalidConfigError collects every problem found in a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the application configuration.
	Config struct {
		// Sources are the agenda directories, highest precedence first.
		Sources []string `json:"sources" mapstructure:"sources"`
		// Catalog is the sqlite ship catalog path.
		Catalog string `json:"catalog" mapstructure:"catalog"`
		// MaxFileSize is the largest agenda file accepted, in bytes.
		MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"`
		// LogLevel is the minimum log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// UI holds output preferences.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures the watch command.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`

		// Path is the file the configuration was read from; empty when only
		// defaults and environment applied.
		Path string `json:"-" mapstructure:"-"`
	}

	// UIConfig configures output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose adds error chains and debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures the watch command.
	WatchConfig struct {
		// Debounce is how long the sources must stay quiet before a rebuild.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// IsValid reports whether s is a known color scheme.
func (s ColorScheme) IsValid() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	}
	return &InvalidValueError{Field: "ui.color_scheme", Value: string(s), Err: ErrInvalidColorScheme}
}

// IsValid reports whether l is a known log level.
func (l LogLevel) IsValid() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	}
	return &InvalidValueError{Field: "log_level", Value: string(l), Err: ErrInvalidLogLevel}
}

// Level converts l to a charmbracelet/log level. Unknown values map to info.
func (l LogLevel) Level() log.Level {
	switch l {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Field, e.Err, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Unwrap exposes the sentinel and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks the constraints the schema cannot see after environment
// overrides: enumerations, non-empty source paths, a positive file size limit
// and a positive debounce.
func (c *Config) Validate() error {
	var errs []error
	if err := c.LogLevel.IsValid(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.IsValid(); err != nil {
		errs = append(errs, err)
	}
	for i, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: empty path", i))
		}
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max_file_size: must be positive, got %d", c.MaxFileSize))
	}
	if c.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must be positive, got %s", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
