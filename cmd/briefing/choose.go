// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/internal/selection"
	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/spf13/cobra"
)

// exitNoMatch is the exit code of choose when no agenda matches.
const exitNoMatch = 2

// shipFlagValues selects the battle for choose and agendas.
type shipFlagValues struct {
	arena string
	ship  string
}

func (f *shipFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.arena, "arena", "", "arena info file written by the game client ("+fleet.ArenaInfoFile+")")
	cmd.Flags().StringVar(&f.ship, "ship", "", "ship id or index (e.g. PJSD012)")
	cmd.MarkFlagsMutuallyExclusive("arena", "ship")
}

func newChooseCommand(app *App, flags *rootFlagValues) *cobra.Command {
	shipFlags := &shipFlagValues{}
	chooseCmd := &cobra.Command{
		Use:   "choose",
		Short: "Choose the agenda for the player's ship",
		Long: `Choose the agenda for the player's ship.

The first source directory holding any matching agenda wins; within it
the most specific agenda is chosen. Exits with status 2 when no agenda
matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChoose(cmd.Context(), app, flags, shipFlags)
		},
	}
	shipFlags.register(chooseCmd)
	return chooseCmd
}

func runChoose(ctx context.Context, app *App, flags *rootFlagValues, shipFlags *shipFlagValues) error {
	battle, err := battleFromFlags(shipFlags.arena, shipFlags.ship)
	if errors.Is(err, errNoShip) {
		return fmt.Errorf("%w: pass --arena or --ship", err)
	}
	if err != nil {
		return err
	}

	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	ctrl, err := app.controller(ctx, s)
	if err != nil {
		return err
	}
	chosen, err := chooseAndPrint(ctx, app.stdout, ctrl, battle)
	if err != nil {
		return err
	}
	if chosen == nil {
		return &ExitError{Code: exitNoMatch}
	}
	return nil
}

// chooseAndPrint chooses for battle and prints the result. A nil agenda
// means nothing matched.
func chooseAndPrint(ctx context.Context, w io.Writer, ctrl *selection.Controller, battle fleet.Battle) (*agenda.Agenda, error) {
	chosen, err := ctrl.Choose(ctx, battle)
	if err != nil {
		return nil, actionable(err, "choose agenda", battle.PlayerShip())
	}
	if chosen == nil {
		fmt.Fprintf(w, "%s no agenda matches ship %s\n", WarningStyle.Render("!"), battle.PlayerShip())
		return nil, nil
	}

	if info, ok := battle.(*fleet.ArenaInfo); ok && info.MapName() != "" {
		fmt.Fprintf(w, "%s %s\n\n", SubtitleStyle.Render("map:"), info.MapName())
	}
	printAgenda(w, chosen)
	return chosen, nil
}
