// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/wows-briefing/briefing/internal/issue"

	"github.com/spf13/cobra"
)

func newCatalogCommand(app *App, flags *rootFlagValues) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the ship catalog",
		Long: `Manage the ship catalog used to resolve the player's ship.

Ship data is imported from JSON or YAML files holding either a list of
ships or an object with a "ships" list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import ships from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(cmd.Context(), app, flags, args[0])
		},
	})

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalogued ships by tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogList(cmd.Context(), app, flags)
		},
	})

	return catalogCmd
}

func runCatalogImport(ctx context.Context, app *App, flags *rootFlagValues, path string) error {
	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	catalog, err := app.openCatalog(ctx, s)
	if err != nil {
		return err
	}
	n, err := catalog.Import(ctx, path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("import ship catalog").
			WithResource(path).
			WithIssue(issue.CatalogImportFailedId).
			WithSuggestion("Every ship needs an id, a name, a species and a positive tier").
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(app.stdout, "%s Imported %d ship(s) into %s\n", SuccessStyle.Render("✓"), n, s.cfg.Catalog)
	return nil
}

func runCatalogList(ctx context.Context, app *App, flags *rootFlagValues) error {
	s, err := app.newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	catalog, err := app.openCatalog(ctx, s)
	if err != nil {
		return err
	}
	ships, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("list ship catalog: %w", err)
	}
	if len(ships) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(catalog is empty)"))
		return nil
	}
	for _, ship := range ships {
		features := ""
		if len(ship.Features) > 0 {
			features = " " + ValueStyle.Render("["+strings.Join(ship.Features, ", ")+"]")
		}
		fmt.Fprintf(app.stdout, "%-3d %s %s %s %s%s\n",
			ship.Tier,
			TitleStyle.Render(ship.Name),
			KeyStyle.Render(ship.Species),
			SubtitleStyle.Render(ship.Nation),
			SubtitleStyle.Render(ship.Index),
			features)
	}
	return nil
}
