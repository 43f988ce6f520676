// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wows-briefing/briefing/internal/config"
	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/internal/issue"
	"github.com/wows-briefing/briefing/internal/selection"
	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration and the ship catalog through
	// it.
	App struct {
		Config   ConfigProvider
		Catalogs CatalogOpener
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Catalogs CatalogOpener
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ShipCatalog is the part of the ship catalog the CLI uses.
	ShipCatalog interface {
		fleet.ShipResolver
		Import(ctx context.Context, path string) (int, error)
		List(ctx context.Context) ([]fleet.ShipInfo, error)
		Close() error
	}

	// CatalogOpener opens the ship catalog stored at path.
	CatalogOpener func(ctx context.Context, path string) (ShipCatalog, error)

	// session holds the per-invocation state shared by a command's steps.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
		loader  *agenda.Loader
		catalog ShipCatalog
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalogs == nil {
		deps.Catalogs = openFleetCatalog
	}

	return &App{
		Config:   deps.Config,
		Catalogs: deps.Catalogs,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

func openFleetCatalog(ctx context.Context, path string) (ShipCatalog, error) {
	catalog, err := fleet.OpenCatalog(ctx, path)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// newSession loads configuration and builds the logger and the agenda loader.
// The catalog is opened lazily by openCatalog. The configured verbosity and
// color scheme are recorded on flags for the error handler.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	verbose := flags.verbose || cfg.UI.Verbose
	s := &session{
		cfg:     cfg,
		logger:  newLogger(a.stderr, cfg.LogLevel, verbose),
		verbose: verbose,
		loader:  agenda.NewLoader(agenda.WithMaxFileSize(cfg.MaxFileSize)),
	}
	flags.verbose = verbose
	flags.issueStyle = s.glamourStyle()
	return s, nil
}

// openCatalog opens the configured ship catalog once per session.
func (a *App) openCatalog(ctx context.Context, s *session) (ShipCatalog, error) {
	if s.catalog != nil {
		return s.catalog, nil
	}
	catalog, err := a.Catalogs(ctx, s.cfg.Catalog)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open ship catalog").
			WithResource(s.cfg.Catalog).
			WithSuggestion("Check that the catalog path in the configuration is writable").
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("opened ship catalog", "path", s.cfg.Catalog)
	s.catalog = catalog
	return catalog, nil
}

// controller builds a Controller over the configured sources, choosing with
// specificity against the ship catalog.
func (a *App) controller(ctx context.Context, s *session) (*selection.Controller, error) {
	catalog, err := a.openCatalog(ctx, s)
	if err != nil {
		return nil, err
	}
	chooser, err := selection.NewSpecificityChooser(catalog)
	if err != nil {
		return nil, err
	}
	c, err := selection.Create(ctx, s.cfg.Sources, chooser,
		selection.WithLogger(s.logger),
		selection.WithLoader(s.loader),
	)
	if err != nil {
		return nil, actionable(err, "load agendas", "")
	}
	return c, nil
}

// close releases the session's catalog.
func (s *session) close() {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Close(); err != nil {
		s.logger.Warn("close ship catalog", "err", err)
	}
	s.catalog = nil
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (s *session) glamourStyle() string {
	if s == nil || s.cfg == nil {
		return defaultIssueStyle
	}
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return defaultIssueStyle
	}
}

// newLogger returns the CLI logger. Verbose mode lowers the level to debug.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl := level.Level()
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: config.AppName,
	})
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// errNoShip is returned when neither --arena nor --ship was given.
var errNoShip = errors.New("no ship given")

// battleFromFlags builds the Battle for choose and agendas.
func battleFromFlags(arena, ship string) (fleet.Battle, error) {
	switch {
	case arena != "" && ship != "":
		return nil, fmt.Errorf("--arena and --ship cannot be used together")
	case ship != "":
		return fleet.Designator(ship), nil
	case arena != "":
		info, err := fleet.ReadArenaInfo(arena)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("read arena info").
				WithResource(arena).
				WithIssue(issue.ArenaInfoNotFoundId).
				WithSuggestion("Start a battle, or pass the ship directly with --ship").
				Wrap(err).
				BuildError()
		}
		return info, nil
	default:
		return nil, errNoShip
	}
}
