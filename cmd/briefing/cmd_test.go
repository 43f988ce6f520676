// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wows-briefing/briefing/internal/issue"
	"github.com/wows-briefing/briefing/internal/testutil"
	"github.com/wows-briefing/briefing/pkg/agenda"
)

const (
	generalAgenda = `name: general
topics:
  minimap: {}
`
	destroyerAgenda = `name: destroyers
extends: general
matcher:
  - classes: [Destroyer]
topics:
  spotting:
    range: 7
  torpedoes: {}
`
	shimakazeAgenda = `name: shimakaze
extends: destroyers
matcher:
  - ships: [Shimakaze]
topics:
  smoke: {}
`
	battleshipAgenda = `name: battleships
matcher:
  - classes: [Battleship]
topics:
  angling: {}
`
)

func TestChoose_MostSpecificAgendaOfFirstMatchingSource(t *testing.T) {
	t.Parallel()

	user := writeSource(t, map[string]string{"bb.yaml": battleshipAgenda})
	stock := writeSource(t, map[string]string{
		"general.yaml":   generalAgenda,
		"dd.yaml":        destroyerAgenda,
		"shimakaze.yaml": shimakazeAgenda,
	})
	env := newTestEnv(t, user, stock)

	if err := env.run(t, "choose", "--ship", "PJSD012"); err != nil {
		t.Fatalf("choose error: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "shimakaze") {
		t.Fatalf("output does not name the chosen agenda:\n%s", out)
	}
	// Child topics come first, inherited ones after.
	smoke := strings.Index(out, "smoke")
	spotting := strings.Index(out, "spotting")
	minimap := strings.Index(out, "minimap")
	if smoke < 0 || smoke > spotting || spotting > minimap {
		t.Errorf("topics out of order (smoke %d, spotting %d, minimap %d):\n%s", smoke, spotting, minimap, out)
	}
	if !env.catalog.closed {
		t.Error("catalog was not closed")
	}
}

func TestChoose_HigherSourceWinsOverSpecificity(t *testing.T) {
	t.Parallel()

	user := writeSource(t, map[string]string{"general.yaml": "name: mine\ntopics:\n  minimap: {}\n"})
	stock := writeSource(t, map[string]string{"shimakaze.yaml": "name: shimakaze\nmatcher:\n  - ships: [Shimakaze]\n"})
	env := newTestEnv(t, user, stock)

	if err := env.run(t, "choose", "--ship", shimakaze.ID); err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if out := env.stdout.String(); !strings.Contains(out, "mine") || strings.Contains(out, "shimakaze") {
		t.Errorf("expected the user agenda, got:\n%s", out)
	}
}

func TestChoose_FromArenaInfo(t *testing.T) {
	t.Parallel()

	src := writeSource(t, map[string]string{"dd.yaml": "name: destroyers\nmatcher:\n  - classes: [Destroyer]\n"})
	arena := filepath.Join(t.TempDir(), "tempArenaInfo.json")
	doc := `{"mapDisplayName": "Hotspot", "vehicles": [{"shipId": 4179605296, "relation": 0}]}`
	testutil.MustWriteFile(t, arena, doc)
	env := newTestEnv(t, src)

	if err := env.run(t, "choose", "--arena", arena); err != nil {
		t.Fatalf("choose error: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "Hotspot") || !strings.Contains(out, "destroyers") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestChoose_NoMatchExitsWithCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, writeSource(t, map[string]string{"bb.yaml": battleshipAgenda}))

	err := env.run(t, "choose", "--ship", "PJSD012")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitNoMatch {
		t.Fatalf("choose error = %v, want exit code %d", err, exitNoMatch)
	}
	if !strings.Contains(env.stdout.String(), "no agenda matches") {
		t.Errorf("missing no-match notice:\n%s", env.stdout.String())
	}
}

func TestChoose_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     map[string]string
		args      []string
		wantIssue issue.Id
	}{
		{
			name:      "unknown ship",
			files:     map[string]string{"dd.yaml": destroyerAgenda, "general.yaml": generalAgenda},
			args:      []string{"choose", "--ship", "PZSD001"},
			wantIssue: issue.ShipNotFoundId,
		},
		{
			name:      "dangling extends",
			files:     map[string]string{"dd.yaml": destroyerAgenda},
			args:      []string{"choose", "--ship", "PJSD012"},
			wantIssue: issue.DanglingReferenceId,
		},
		{
			name:      "circular extends",
			files:     map[string]string{"a.yaml": "name: a\nextends: b\n", "b.yaml": "name: b\nextends: a\n"},
			args:      []string{"choose", "--ship", "PJSD012"},
			wantIssue: issue.CircularExtensionId,
		},
		{
			name:      "malformed file",
			files:     map[string]string{"bad.yaml": "matcher: 3\n"},
			args:      []string{"choose", "--ship", "PJSD012"},
			wantIssue: issue.AgendaParseErrorId,
		},
		{
			name:      "missing arena info",
			files:     map[string]string{"general.yaml": generalAgenda},
			args:      []string{"choose", "--arena", filepath.Join("no", "such", "tempArenaInfo.json")},
			wantIssue: issue.ArenaInfoNotFoundId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, writeSource(t, tt.files))
			err := env.run(t, tt.args...)
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error = %v (%T), want *issue.ActionableError", err, err)
			}
			if ae.Issue != tt.wantIssue {
				t.Errorf("issue = %d, want %d", ae.Issue, tt.wantIssue)
			}
		})
	}
}

func TestChoose_RequiresShip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, t.TempDir())
	if err := env.run(t, "choose"); !errors.Is(err, errNoShip) {
		t.Errorf("choose error = %v, want errNoShip", err)
	}
}

func TestChoose_MissingSourceIsSkipped(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent")
	env := newTestEnv(t, missing, writeSource(t, map[string]string{"general.yaml": generalAgenda}))

	if err := env.run(t, "choose", "--ship", "PASB018"); err != nil {
		t.Fatalf("choose error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "general") {
		t.Errorf("expected the stock agenda:\n%s", env.stdout.String())
	}
}

func TestChoose_ConfiguredFileSizeLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, writeSource(t, map[string]string{"general.yaml": generalAgenda}))
	env.cfg.MaxFileSize = 16

	err := env.run(t, "choose", "--ship", "PJSD012")
	if !errors.Is(err, agenda.ErrFormat) {
		t.Errorf("choose error = %v, want ErrFormat from the size limit", err)
	}
}

func TestAgendas_ListsScoresAndMarksChoice(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent")
	stock := writeSource(t, map[string]string{
		"general.yaml":   generalAgenda,
		"dd.yaml":        destroyerAgenda,
		"shimakaze.yaml": shimakazeAgenda,
		"bb.yaml":        battleshipAgenda,
	})
	env := newTestEnv(t, missing, stock)

	if err := env.run(t, "agendas", "--ship", "PJSD012"); err != nil {
		t.Fatalf("agendas error: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"(unavailable)", "score 100", "score 10", "score 0", "no match", "✓ shimakaze"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAgendas_WithoutShip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, writeSource(t, map[string]string{"general.yaml": generalAgenda}), t.TempDir())
	if err := env.run(t, "agendas"); err != nil {
		t.Fatalf("agendas error: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "general (1 topics, 0 clauses)") || !strings.Contains(out, "(no agendas)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "score") {
		t.Errorf("scores shown without a ship:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, writeSource(t, map[string]string{
		"general.yaml": generalAgenda,
		"dd.yaml":      destroyerAgenda,
	}))

	if err := env.run(t, "show", "destroyers"); err != nil {
		t.Fatalf("show error: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"classes=[Destroyer]", "{range: 7}", "minimap"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := env.run(t, "show", "cruisers"); err == nil || !strings.Contains(err.Error(), `"cruisers" not found`) {
		t.Errorf("show unknown agenda error = %v", err)
	}
}

func TestCatalogImportAndList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, t.TempDir())
	if err := env.run(t, "catalog", "import", "ships.yaml"); err != nil {
		t.Fatalf("import error: %v", err)
	}
	if len(env.catalog.imported) != 1 || env.catalog.imported[0] != "ships.yaml" {
		t.Errorf("imported = %v", env.catalog.imported)
	}
	if !strings.Contains(env.stdout.String(), "Imported 2 ship(s)") {
		t.Errorf("unexpected import output:\n%s", env.stdout.String())
	}

	env.stdout.Reset()
	if err := env.run(t, "catalog", "list"); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if out := env.stdout.String(); !strings.Contains(out, "Shimakaze") || !strings.Contains(out, "[torpedoes, smoke]") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestCatalogImport_Failure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, t.TempDir())
	env.catalog.importErr = errors.New("ship 1: name is required")

	err := env.run(t, "catalog", "import", "ships.json")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.CatalogImportFailedId {
		t.Fatalf("import error = %v, want catalog import issue", err)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "/agendas/user", "/agendas/stock")
	if err := env.run(t, "config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"(using defaults)", "1. /agendas/user", "2. /agendas/stock", "log_level", "1048576 bytes", "50ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigLoadFailureStopsCommands(t *testing.T) {
	t.Parallel()

	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("log_level: invalid value")).
		BuildError()
	app, err := NewApp(Dependencies{
		Config: &staticConfig{err: loadErr},
		Stdout: &strings.Builder{},
		Stderr: &strings.Builder{},
	})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)
	root.SetArgs([]string{"choose", "--ship", "PJSD012"})
	if err := root.Execute(); !errors.Is(err, loadErr) {
		t.Errorf("choose error = %v, want the config error", err)
	}
}
