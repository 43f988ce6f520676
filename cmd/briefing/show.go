// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print one compiled agenda",
		Long: `Print one compiled agenda with every extends flattened in.

When several sources define the name, the highest-precedence one is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), app, flags, args[0])
		},
	}
}

func runShow(ctx context.Context, app *App, flags *rootFlagValues, name string) error {
	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	ctrl, err := app.controller(ctx, s)
	if err != nil {
		return err
	}
	a, ok := ctrl.Lookup(name)
	if !ok {
		return fmt.Errorf("agenda %q not found in %d source(s)", name, len(ctrl.Sources()))
	}
	printAgenda(app.stdout, a)
	return nil
}
