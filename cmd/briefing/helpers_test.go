// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wows-briefing/briefing/internal/config"
	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/internal/testutil"
)

var (
	shimakaze = fleet.ShipInfo{
		ID: "4179605296", Index: "PJSD012", Name: "Shimakaze",
		Species: "Destroyer", Tier: 10, Nation: "japan",
		Features: []string{"torpedoes", "smoke"},
	}
	iowa = fleet.ShipInfo{
		ID: "4282267344", Index: "PASB018", Name: "Iowa",
		Species: "Battleship", Tier: 9, Nation: "usa",
	}
)

type (
	// staticConfig is a ConfigProvider returning a fixed result.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// fakeCatalog is an in-memory ShipCatalog.
	fakeCatalog struct {
		*fleet.Roster
		ships     []fleet.ShipInfo
		imported  []string
		importErr error
		closed    bool
	}

	// testEnv is an App wired to temp sources and an in-memory catalog.
	testEnv struct {
		app     *App
		cfg     *config.Config
		catalog *fakeCatalog
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
	}
)

func (p *staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (c *fakeCatalog) Import(_ context.Context, path string) (int, error) {
	if c.importErr != nil {
		return 0, c.importErr
	}
	c.imported = append(c.imported, path)
	return len(c.ships), nil
}

func (c *fakeCatalog) List(context.Context) ([]fleet.ShipInfo, error) {
	return c.ships, nil
}

func (c *fakeCatalog) Close() error {
	c.closed = true
	return nil
}

// newTestEnv builds an App whose sources are the given directories.
func newTestEnv(t *testing.T, sources ...string) *testEnv {
	t.Helper()

	ships := []fleet.ShipInfo{shimakaze, iowa}
	env := &testEnv{
		cfg: &config.Config{
			Sources:     sources,
			Catalog:     filepath.Join(t.TempDir(), "catalog.db"),
			MaxFileSize: 1 << 20,
			LogLevel:    config.LogLevelError,
			UI:          config.UIConfig{ColorScheme: config.ColorSchemeAuto},
			Watch:       config.WatchConfig{Debounce: 50 * time.Millisecond},
		},
		catalog: &fakeCatalog{Roster: fleet.NewRoster(ships...), ships: ships},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}

	app, err := NewApp(Dependencies{
		Config: &staticConfig{cfg: env.cfg},
		Catalogs: func(context.Context, string) (ShipCatalog, error) {
			return env.catalog, nil
		},
		Stdout: env.stdout,
		Stderr: env.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	env.app = app
	return env
}

// run executes the CLI with args.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(e.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// writeSource creates a source directory holding files.
func writeSource(t *testing.T, files map[string]string) string {
	t.Helper()
	return testutil.WriteSource(t, files)
}
