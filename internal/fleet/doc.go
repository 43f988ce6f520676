// SPDX-License-Identifier: MPL-2.0

// Package fleet supplies the ship side of agenda selection: the ShipResolver
// and Battle contracts, a sqlite-backed ship catalog, and a reader for the
// game's arena-info file that names the player's ship.
package fleet
