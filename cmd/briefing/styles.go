// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output. Tuned for dark terminals.
const (
	// ColorPrimary is purple: titles and agenda names.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray: paths, subtitles and empty states.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green: the chosen agenda and completed actions.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorWarning is amber: recovered problems.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue: topic and config keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
	// ColorVerbose is light gray: option values and scores.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for headers and agenda names.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks positive outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle marks recovered problems.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for topic names and config keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// ValueStyle is for option values and scores.
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// sourceHeaderStyle introduces one source in listings.
	sourceHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHighlight).
				MarginTop(1)
)
