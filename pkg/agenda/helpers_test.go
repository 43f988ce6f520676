// SPDX-License-Identifier: MPL-2.0

package agenda

import (
	"reflect"
	"slices"
	"testing"
)

type testShip struct {
	name     string
	species  string
	tier     int
	nation   string
	features []string
}

func (s testShip) Name() string    { return s.name }
func (s testShip) Species() string { return s.species }
func (s testShip) Tier() int       { return s.tier }
func (s testShip) Nation() string  { return s.nation }

func (s testShip) Has(feature string) bool { return slices.Contains(s.features, feature) }

// plainShip does not implement FeatureSet.
type plainShip struct{ ship testShip }

func (s plainShip) Name() string    { return s.ship.Name() }
func (s plainShip) Species() string { return s.ship.Species() }
func (s plainShip) Tier() int       { return s.ship.Tier() }
func (s plainShip) Nation() string  { return s.ship.Nation() }

var shimakaze = testShip{
	name:     "Shimakaze",
	species:  "Destroyer",
	tier:     10,
	nation:   "japan",
	features: []string{"torpedoes", "smoke"},
}

// topicsOf builds Topics from alternating name/options arguments.
func topicsOf(t *testing.T, kv ...any) *Topics {
	t.Helper()
	if len(kv)%2 != 0 {
		t.Fatalf("topicsOf: odd argument count %d", len(kv))
	}
	out := NewTopics()
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			t.Fatalf("topicsOf: argument %d is %T, want string", i, kv[i])
		}
		opts, _ := kv[i+1].(Options)
		if opts == nil {
			opts = Options{}
		}
		out.Set(name, opts)
	}
	return out
}

func assertTopicOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		t.Errorf("topic order = %v, want %v", got, want)
	}
}

func assertOptions(t *testing.T, a *Agenda, topic string, want Options) {
	t.Helper()
	got, ok := a.Topic(topic)
	if !ok {
		t.Fatalf("topic %q missing; topics are %v", topic, a.TopicNames())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topic %q options = %v, want %v", topic, got, want)
	}
}

// assertSameAgenda compares two agendas field by field.
func assertSameAgenda(t *testing.T, got, want *Agenda) {
	t.Helper()
	if got.Name() != want.Name() || got.Path() != want.Path() {
		t.Errorf("identity = (%q, %q), want (%q, %q)", got.Name(), got.Path(), want.Name(), want.Path())
	}
	if !reflect.DeepEqual(got.Matcher(), want.Matcher()) {
		t.Errorf("matcher = %+v, want %+v", got.Matcher(), want.Matcher())
	}
	assertTopicOrder(t, got.TopicNames(), want.TopicNames()...)
	for _, name := range want.TopicNames() {
		wantOpts, _ := want.Topic(name)
		assertOptions(t, got, name, wantOpts)
	}
}
