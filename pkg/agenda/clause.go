// SPDX-License-Identifier: MPL-2.0

package agenda

import "slices"

type (
	// Ship is the read-only view of a vehicle that clauses are tested against.
	Ship interface {
		// Name is the ship's designator-independent name.
		Name() string
		// Species is the ship class (e.g. "Destroyer").
		Species() string
		// Tier is the ship tier.
		Tier() int
		// Nation is the nation code (e.g. "japan").
		Nation() string
	}

	// FeatureSet is implemented by ships that can answer `has` conditions.
	// A ship that does not implement it satisfies no clause using `has`.
	FeatureSet interface {
		Has(feature string) bool
	}

	// Clause is one alternative matching condition. Its fields are ANDed.
	//
	// A nil field is absent and matches anything. A non-nil field is present;
	// the ship's attribute must be one of its elements, so a present but empty
	// field matches nothing.
	Clause struct {
		Ships   []string
		Classes []string
		Tiers   []int
		Nations []string
		// Has lists auxiliary conditions that must all hold.
		Has []string
		// HasScalar records that `has` was written as a bare string rather
		// than a list. It only affects specificity scoring.
		HasScalar bool
	}
)

// MatchedBy reports whether ship satisfies every present field of c.
func (c Clause) MatchedBy(ship Ship) bool {
	if c.Ships != nil && !slices.Contains(c.Ships, ship.Name()) {
		return false
	}
	if c.Classes != nil && !slices.Contains(c.Classes, ship.Species()) {
		return false
	}
	if c.Tiers != nil && !slices.Contains(c.Tiers, ship.Tier()) {
		return false
	}
	if c.Nations != nil && !slices.Contains(c.Nations, ship.Nation()) {
		return false
	}
	if c.Has != nil {
		features, ok := ship.(FeatureSet)
		if !ok {
			return false
		}
		for _, feature := range c.Has {
			if !features.Has(feature) {
				return false
			}
		}
	}
	return true
}

// IsWildcard reports whether c has no present field.
func (c Clause) IsWildcard() bool {
	return c.Ships == nil && c.Classes == nil && c.Tiers == nil && c.Nations == nil && c.Has == nil
}

// clone returns a deep copy of c, keeping nil fields nil.
func (c Clause) clone() Clause {
	return Clause{
		Ships:     slices.Clone(c.Ships),
		Classes:   slices.Clone(c.Classes),
		Tiers:     slices.Clone(c.Tiers),
		Nations:   slices.Clone(c.Nations),
		Has:       slices.Clone(c.Has),
		HasScalar: c.HasScalar,
	}
}

// cloneClauses deep-copies a matcher, keeping nil (undeclared) distinct from
// empty (declared).
func cloneClauses(clauses []Clause) []Clause {
	if clauses == nil {
		return nil
	}
	out := make([]Clause, len(clauses))
	for i, c := range clauses {
		out[i] = c.clone()
	}
	return out
}
