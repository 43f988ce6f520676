// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"context"
	"fmt"

	"github.com/wows-briefing/briefing/internal/fleet"
	"github.com/wows-briefing/briefing/pkg/agenda"
)

// Specificity weights. Naming an exact ship always outranks naming only
// broader categories.
const (
	scoreShips    = 100
	scoreCategory = 10
)

type (
	// Chooser picks at most one agenda of a single source for a battle.
	Chooser interface {
		Choose(ctx context.Context, battle fleet.Battle, agendas []*agenda.Agenda) (*agenda.Agenda, error)
	}

	// SpecificityChooser picks the agenda whose best matching clause is the
	// most specific. It is safe for concurrent use when its resolver is.
	SpecificityChooser struct {
		resolver fleet.ShipResolver
	}
)

// NewSpecificityChooser returns a chooser resolving ships through resolver.
func NewSpecificityChooser(resolver fleet.ShipResolver) (*SpecificityChooser, error) {
	if resolver == nil {
		return nil, &ConfigurationError{Reason: "specificity chooser requires a ship resolver"}
	}
	return &SpecificityChooser{resolver: resolver}, nil
}

// Score returns the specificity of a clause: 100 for `ships`, 10 each for
// `classes`, `tiers` and `nations`, and for `has` 10 per listed condition or
// a flat 10 when it was written as a single string. Absent keys add nothing.
func Score(c agenda.Clause) int {
	score := 0
	if c.Ships != nil {
		score += scoreShips
	}
	if c.Classes != nil {
		score += scoreCategory
	}
	if c.Tiers != nil {
		score += scoreCategory
	}
	if c.Nations != nil {
		score += scoreCategory
	}
	if c.Has != nil {
		if c.HasScalar {
			score += scoreCategory
		} else {
			score += scoreCategory * len(c.Has)
		}
	}
	return score
}

// BestScore returns the highest score among the clauses a matched. ok is false
// when ship matches none of them.
func BestScore(a *agenda.Agenda, ship agenda.Ship) (score int, ok bool) {
	for _, c := range a.Matches(ship) {
		if s := Score(c); !ok || s > score {
			score, ok = s, true
		}
	}
	return score, ok
}

// Choose resolves the player's ship once and returns the matching agenda
// with the highest score, the earliest one on ties. It returns nil when no
// agenda matches. The ship is resolved even for an empty list so an unknown
// ship is reported regardless of which sources hold agendas.
func (s *SpecificityChooser) Choose(ctx context.Context, battle fleet.Battle, agendas []*agenda.Agenda) (*agenda.Agenda, error) {
	ship, err := s.resolver.Resolve(ctx, battle.PlayerShip())
	if err != nil {
		return nil, fmt.Errorf("resolve player ship %q: %w", battle.PlayerShip(), err)
	}

	var (
		best      *agenda.Agenda
		bestScore int
	)
	for _, a := range agendas {
		score, ok := BestScore(a, ship)
		if !ok {
			continue
		}
		if best == nil || score > bestScore {
			best, bestScore = a, score
		}
	}
	return best, nil
}
