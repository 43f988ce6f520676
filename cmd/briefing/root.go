// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for briefing.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every command, and the
// issue rendering style once a session has loaded the configuration.
type rootFlagValues struct {
	verbose    bool
	configPath string
	issueStyle string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}
	return newRootCommand(app, flags)
}

func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "briefing",
		Short: "Pick the pre-battle agenda for your ship",
		Long: TitleStyle.Render("briefing") + SubtitleStyle.Render(" - pick the pre-battle agenda for your ship") + `

Agendas are small YAML, JSON, TOML or CUE files listing the topics to
brief before a battle. Each agenda says which ships it is for; agendas
can extend one another. Source directories are searched in order and the
most specific agenda of the first source with a match wins.

` + SubtitleStyle.Render("Examples:") + `
  briefing choose --ship PJSD012          Choose for a ship by index
  briefing choose --arena tempArenaInfo.json
  briefing agendas --ship 4282234864      Show every agenda and its score
  briefing show destroyers                Print one compiled agenda
  briefing watch --arena replays/tempArenaInfo.json`,
		SilenceUsage: true,
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is <config dir>/briefing/config.cue)")

	rootCmd.AddCommand(
		newChooseCommand(app, flags),
		newAgendasCommand(app, flags),
		newShowCommand(app, flags),
		newWatchCommand(app, flags),
		newCatalogCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags := &rootFlagValues{}
	rootCmd := newRootCommand(app, flags)
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(newErrorHandler(flags)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
