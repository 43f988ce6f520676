// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/wows-briefing/briefing/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `briefing config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage briefing configuration",
		Long: `Manage briefing configuration.

Configuration is stored in:
  - Linux: ~/.config/briefing/config.cue
  - macOS: ~/Library/Application Support/briefing/config.cue
  - Windows: %APPDATA%\briefing\config.cue

Every key can be overridden with a BRIEFING_* environment variable,
e.g. BRIEFING_LOG_LEVEL=debug or BRIEFING_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file and agenda directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlagValues) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), cfg.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("sources"))
	if len(cfg.Sources) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for i, src := range cfg.Sources {
		fmt.Fprintf(w, "  %d. %s\n", i+1, ValueStyle.Render(src))
	}
	fmt.Fprintln(w)

	printSetting(w, "catalog", cfg.Catalog)
	printSetting(w, "max_file_size", fmt.Sprintf("%d bytes", cfg.MaxFileSize))
	printSetting(w, "log_level", string(cfg.LogLevel))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", ValueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", ValueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", ValueStyle.Render(cfg.Watch.Debounce.String()))
	return nil
}

func printSetting(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(key), ValueStyle.Render(value))
}

func initConfig(w io.Writer) error {
	path, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(w, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)

	cfg := config.DefaultConfig()
	if err := config.EnsureDirs(cfg); err != nil {
		return err
	}
	for _, src := range cfg.Sources {
		fmt.Fprintf(w, "%s Agenda directory %s\n", SuccessStyle.Render("✓"), src)
	}
	if cfg.Catalog != "" {
		fmt.Fprintf(w, "%s Ship catalog will be stored in %s\n", SubtitleStyle.Render("·"), filepath.Dir(cfg.Catalog))
	}
	return nil
}
