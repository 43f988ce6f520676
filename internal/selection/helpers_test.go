// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/internal/testutil"
	"github.com/wows-briefing/briefing/pkg/agenda"
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

// countingResolver wraps a Roster and counts Resolve calls.
type countingResolver struct {
	roster *fleet.Roster
	calls  atomic.Int32
	err    error
}

func newCountingResolver(ships ...fleet.ShipInfo) *countingResolver {
	return &countingResolver{roster: fleet.NewRoster(ships...)}
}

func (r *countingResolver) Resolve(ctx context.Context, designator string) (agenda.Ship, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.roster.Resolve(ctx, designator)
}

// compileYAML compiles standalone YAML definitions in order.
func compileYAML(t *testing.T, docs ...string) []*agenda.Agenda {
	t.Helper()
	defs := make([]*agenda.Definition, 0, len(docs))
	for i, doc := range docs {
		def, err := agenda.DecodeYAML(filepath.Join("mem", string(rune('a'+i))+".yaml"), []byte(doc))
		if err != nil {
			t.Fatalf("decode doc %d: %v", i, err)
		}
		defs = append(defs, def)
	}
	agendas, err := agenda.Compile(defs)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return agendas
}

// writeSource creates a source directory holding files.
func writeSource(t *testing.T, files map[string]string) string {
	t.Helper()
	return testutil.WriteSource(t, files)
}
