// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/wows-briefing/briefing/internal/selection"
	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/spf13/cobra"
)

func newAgendasCommand(app *App, flags *rootFlagValues) *cobra.Command {
	shipFlags := &shipFlagValues{}
	agendasCmd := &cobra.Command{
		Use:   "agendas",
		Short: "List compiled agendas per source",
		Long: `List compiled agendas per source, highest precedence first.

With --ship or --arena, every agenda matching the ship shows its
specificity score and the agenda choose would pick is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgendas(cmd.Context(), app, flags, shipFlags)
		},
	}
	shipFlags.register(agendasCmd)
	return agendasCmd
}

func runAgendas(ctx context.Context, app *App, flags *rootFlagValues, shipFlags *shipFlagValues) error {
	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	ctrl, err := app.controller(ctx, s)
	if err != nil {
		return err
	}

	var (
		ship   agenda.Ship
		chosen *agenda.Agenda
	)
	battle, err := battleFromFlags(shipFlags.arena, shipFlags.ship)
	switch {
	case errors.Is(err, errNoShip):
	case err != nil:
		return err
	default:
		catalog, err := app.openCatalog(ctx, s)
		if err != nil {
			return err
		}
		if ship, err = catalog.Resolve(ctx, battle.PlayerShip()); err != nil {
			return actionable(err, "resolve ship", battle.PlayerShip())
		}
		if chosen, err = ctrl.Choose(ctx, battle); err != nil {
			return actionable(err, "choose agenda", battle.PlayerShip())
		}
	}

	unavailable := make(map[string]selection.Severity)
	for _, d := range ctrl.Diagnostics() {
		if d.Code == selection.CodeSourceUnavailable {
			unavailable[d.Path] = d.Severity
		}
	}

	w := app.stdout
	for _, src := range ctrl.Sources() {
		fmt.Fprintln(w, sourceHeaderStyle.Render(src.Path()))
		if severity, ok := unavailable[src.Path()]; ok {
			fmt.Fprintf(w, "  %s\n", WarningStyle.Render(unavailableLabel(severity)))
			continue
		}
		if src.Len() == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(no agendas)"))
			continue
		}
		for _, a := range src.Agendas() {
			fmt.Fprintf(w, "  %s %s\n", agendaMarker(a, chosen), agendaLine(a, ship))
		}
	}
	return nil
}

// unavailableLabel tells a missing source from one that could not be read.
func unavailableLabel(severity selection.Severity) string {
	if severity == selection.SeverityError {
		return "(unreadable)"
	}
	return "(unavailable)"
}

func agendaMarker(a, chosen *agenda.Agenda) string {
	if a == chosen {
		return SuccessStyle.Render("✓")
	}
	return " "
}

// agendaLine describes one agenda: its label, topic count and, when a ship
// is given, its best matched clause score.
func agendaLine(a *agenda.Agenda, ship agenda.Ship) string {
	line := fmt.Sprintf("%s %s", TitleStyle.Render(a.Label()),
		SubtitleStyle.Render(fmt.Sprintf("(%d topics, %d clauses)", len(a.TopicNames()), len(a.Matcher()))))
	if ship == nil {
		return line
	}
	score, ok := selection.BestScore(a, ship)
	if !ok {
		return line + " " + SubtitleStyle.Render("no match")
	}
	return line + " " + ValueStyle.Render(fmt.Sprintf("score %d", score))
}
