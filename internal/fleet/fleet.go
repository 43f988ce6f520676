// SPDX-License-Identifier: MPL-2.0

package fleet

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/wows-briefing/briefing/pkg/agenda"
)

// ErrShipNotFound is returned when a designator does not name a known ship.
var ErrShipNotFound = errors.New("ship not found")

type (
	// ShipInfo is the catalog record of one ship.
	ShipInfo struct {
		// ID is the numeric game identifier as a decimal string.
		ID string `json:"id" yaml:"id"`
		// Index is the game-params index (e.g. "PJSD012"). Optional.
		Index   string `json:"index,omitempty" yaml:"index,omitempty"`
		Name    string `json:"name" yaml:"name"`
		Species string `json:"species" yaml:"species"`
		Tier    int    `json:"tier" yaml:"tier"`
		Nation  string `json:"nation" yaml:"nation"`
		// Features are the auxiliary conditions `has` clauses test against.
		Features []string `json:"features,omitempty" yaml:"features,omitempty"`
	}

	// Ship adapts a ShipInfo to agenda.Ship and agenda.FeatureSet.
	Ship struct {
		info ShipInfo
	}

	// ShipResolver turns a battle's player-ship designator into a Ship.
	ShipResolver interface {
		Resolve(ctx context.Context, designator string) (agenda.Ship, error)
	}

	// Battle is the context agendas are chosen for.
	Battle interface {
		// PlayerShip returns the designator of the player's ship.
		PlayerShip() string
	}

	// Designator is a Battle that only knows the player's ship.
	Designator string

	// Roster is an in-memory ShipResolver keyed by ID and by Index.
	Roster struct {
		ships map[string]ShipInfo
	}

	// ShipNotFoundError reports the designator that failed to resolve.
	ShipNotFoundError struct {
		Designator string
	}
)

// NewShip wraps info.
func NewShip(info ShipInfo) *Ship {
	info.Features = slices.Clone(info.Features)
	return &Ship{info: info}
}

func (s *Ship) Name() string    { return s.info.Name }
func (s *Ship) Species() string { return s.info.Species }
func (s *Ship) Tier() int       { return s.info.Tier }
func (s *Ship) Nation() string  { return s.info.Nation }

// Has reports whether the ship lists feature.
func (s *Ship) Has(feature string) bool { return slices.Contains(s.info.Features, feature) }

// Info returns a copy of the underlying record.
func (s *Ship) Info() ShipInfo {
	info := s.info
	info.Features = slices.Clone(s.info.Features)
	return info
}

// PlayerShip returns d.
func (d Designator) PlayerShip() string { return string(d) }

// Validate checks the fields a catalog record cannot do without.
func (s ShipInfo) Validate() error {
	switch {
	case s.ID == "":
		return errors.New("ship id is required")
	case s.Name == "":
		return fmt.Errorf("ship %s: name is required", s.ID)
	case s.Species == "":
		return fmt.Errorf("ship %s: species is required", s.ID)
	case s.Tier < 1:
		return fmt.Errorf("ship %s: tier must be positive, got %d", s.ID, s.Tier)
	}
	return nil
}

// NewRoster indexes ships by ID and Index.
func NewRoster(ships ...ShipInfo) *Roster {
	r := &Roster{ships: make(map[string]ShipInfo, 2*len(ships))}
	for _, s := range ships {
		r.ships[s.ID] = s
		if s.Index != "" {
			r.ships[s.Index] = s
		}
	}
	return r
}

// Resolve looks designator up by ID, then by Index.
func (r *Roster) Resolve(ctx context.Context, designator string) (agenda.Ship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, ok := r.ships[designator]
	if !ok {
		return nil, &ShipNotFoundError{Designator: designator}
	}
	return NewShip(info), nil
}

func (e *ShipNotFoundError) Error() string {
	return fmt.Sprintf("ship %q not found", e.Designator)
}

// Unwrap returns ErrShipNotFound for errors.Is() compatibility.
func (e *ShipNotFoundError) Unwrap() error { return ErrShipNotFound }
