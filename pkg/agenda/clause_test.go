// SPDX-License-Identifier: MPL-2.0

package agenda

import "testing"

func TestClause_MatchedBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		clause Clause
		ship   Ship
		want   bool
	}{
		{name: "wildcard", clause: Clause{}, ship: shimakaze, want: true},
		{name: "ship name", clause: Clause{Ships: []string{"Shimakaze", "Yugumo"}}, ship: shimakaze, want: true},
		{name: "ship name mismatch", clause: Clause{Ships: []string{"Yugumo"}}, ship: shimakaze, want: false},
		{name: "class", clause: Clause{Classes: []string{"Destroyer"}}, ship: shimakaze, want: true},
		{name: "tier", clause: Clause{Tiers: []int{8, 10}}, ship: shimakaze, want: true},
		{name: "tier mismatch", clause: Clause{Tiers: []int{8}}, ship: shimakaze, want: false},
		{name: "nation", clause: Clause{Nations: []string{"japan"}}, ship: shimakaze, want: true},
		{name: "fields are ANDed", clause: Clause{Classes: []string{"Destroyer"}, Tiers: []int{8}}, ship: shimakaze, want: false},
		{name: "present empty field matches nothing", clause: Clause{Tiers: []int{}}, ship: shimakaze, want: false},
		{name: "has single feature", clause: Clause{Has: []string{"smoke"}, HasScalar: true}, ship: shimakaze, want: true},
		{name: "has requires every feature", clause: Clause{Has: []string{"smoke", "radar"}}, ship: shimakaze, want: false},
		{name: "has on ship without features", clause: Clause{Has: []string{"smoke"}}, ship: plainShip{shimakaze}, want: false},
		{name: "no has on ship without features", clause: Clause{Tiers: []int{10}}, ship: plainShip{shimakaze}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.clause.MatchedBy(tt.ship); got != tt.want {
				t.Errorf("MatchedBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClause_IsWildcard(t *testing.T) {
	t.Parallel()

	if !(Clause{}).IsWildcard() {
		t.Error("zero Clause should be a wildcard")
	}
	if (Clause{Nations: []string{}}).IsWildcard() {
		t.Error("a present empty field is not a wildcard")
	}
}

func TestCloneClauses_KeepsPresence(t *testing.T) {
	t.Parallel()

	if cloneClauses(nil) != nil {
		t.Error("cloneClauses(nil) should stay nil")
	}
	if got := cloneClauses([]Clause{}); got == nil {
		t.Error("cloneClauses(empty) should stay non-nil")
	}

	in := []Clause{{Ships: []string{}, Tiers: []int{5}}}
	out := cloneClauses(in)
	if out[0].Ships == nil || out[0].Classes != nil {
		t.Errorf("clone lost field presence: %+v", out[0])
	}
	out[0].Tiers[0] = 6
	if in[0].Tiers[0] != 5 {
		t.Error("clone shares backing arrays with the input")
	}
}
