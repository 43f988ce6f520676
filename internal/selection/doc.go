// SPDX-License-Identifier: MPL-2.0

// Package selection picks the agenda for a battle.
//
// A Controller loads every source directory once, links `extends`
// references across all of them and compiles each source's agendas. Per
// request it asks a Chooser for a match from each source in precedence
// order; the first source with a match wins regardless of how specific a
// lower-precedence match would be. SpecificityChooser is the standard
// Chooser: it scores the clauses an agenda matched and keeps the most
// specific agenda of one source.
package selection
