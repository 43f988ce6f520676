// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/wows-briefing/briefing/internal/selection"
	"github.com/wows-briefing/briefing/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var arena string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-choose whenever a battle starts or an agenda changes",
		Long: `Watch the agenda sources and the arena info file.

Agendas are rebuilt from scratch when a source changes, and the agenda
for the current battle is chosen again whenever the game client writes
a new arena info file. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, flags, arena)
		},
	}
	watchCmd.Flags().StringVar(&arena, "arena", "", "arena info file written by the game client (required)")
	_ = watchCmd.MarkFlagRequired("arena")
	return watchCmd
}

// briefingLoop holds the state of one watch session. Callbacks never run
// concurrently, so no locking is needed.
type briefingLoop struct {
	app   *App
	s     *session
	arena string
	ctrl  *selection.Controller
	out   io.Writer
}

func runWatch(ctx context.Context, app *App, flags *rootFlagValues, arena string) error {
	absArena, err := filepath.Abs(arena)
	if err != nil {
		return fmt.Errorf("resolve arena info path: %w", err)
	}

	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	loop := &briefingLoop{app: app, s: s, arena: absArena, out: app.stdout}
	loop.rebuild(ctx)
	loop.rechoose(ctx)

	w, err := watch.New(watch.Config{
		Dirs:     s.cfg.Sources,
		Files:    []string{absArena},
		Patterns: watch.PatternsFor(s.loader.Extensions()),
		Debounce: s.cfg.Watch.Debounce,
		Logger:   s.logger,
		OnChange: loop.onChange,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching %d source(s) and %s (Ctrl+C to stop)\n",
		KeyStyle.Render("→"), len(s.cfg.Sources), SubtitleStyle.Render(absArena))
	return w.Run(ctx)
}

func (l *briefingLoop) onChange(ctx context.Context, changed []string) error {
	if sourcesChanged(changed, l.arena) {
		l.s.logger.Info("agenda sources changed, rebuilding", "paths", len(changed))
		l.rebuild(ctx)
	}
	l.rechoose(ctx)
	return nil
}

// rebuild replaces the Controller. A failed rebuild keeps the previous one
// so a half-saved file does not interrupt the session.
func (l *briefingLoop) rebuild(ctx context.Context) {
	ctrl, err := l.app.controller(ctx, l.s)
	if err != nil {
		fmt.Fprintf(l.app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, l.s.verbose))
		return
	}
	l.ctrl = ctrl
}

func (l *briefingLoop) rechoose(ctx context.Context) {
	if l.ctrl == nil {
		return
	}
	if !fileExists(l.arena) {
		fmt.Fprintf(l.out, "%s waiting for a battle to start\n", SubtitleStyle.Render("…"))
		return
	}
	battle, err := battleFromFlags(l.arena, "")
	if err != nil {
		fmt.Fprintf(l.app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, l.s.verbose))
		return
	}
	fmt.Fprintln(l.out)
	if _, err := chooseAndPrint(ctx, l.out, l.ctrl, battle); err != nil {
		fmt.Fprintf(l.app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, l.s.verbose))
	}
}

// sourcesChanged reports whether any changed path is something other than
// the arena info file.
func sourcesChanged(changed []string, arena string) bool {
	return slices.ContainsFunc(changed, func(p string) bool {
		return filepath.Clean(p) != arena
	})
}
