// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is read from config.cue in the platform configuration
// directory (~/.config/briefing on Linux, ~/Library/Application Support/briefing
// on macOS, %APPDATA%\briefing on Windows) and validated against the embedded
// #Config schema. Every key can be overridden from the environment with the
// BRIEFING_ prefix, e.g. BRIEFING_LOG_LEVEL=debug or
// BRIEFING_SOURCES=/a,/b.
package config
