// SPDX-License-Identifier: MPL-2.0

package fleet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ArenaInfoFile is the name of the file the game writes when a battle starts.
const ArenaInfoFile = "tempArenaInfo.json"

// ErrNoPlayerShip is returned when an arena-info document names no player
// vehicle.
var ErrNoPlayerShip = errors.New("arena info has no player ship")

var (
	// The player's own vehicle has relation 0 (1 is ally, 2 is enemy).
	playerShipID  = jp.MustParseString("$.vehicles[?(@.relation == 0)].shipId")
	playerVehicle = jp.MustParseString("$.playerVehicle")
	mapDisplay    = jp.MustParseString("$.mapDisplayName")
)

// ArenaInfo is the Battle described by an arena-info document.
type ArenaInfo struct {
	playerShip string
	mapName    string
}

// ParseArenaInfo extracts the player's ship designator from an arena-info
// document. The numeric ship id of the vehicle with relation 0 is preferred;
// documents without a vehicle list fall back to the index prefix of
// `playerVehicle` (e.g. "PJSD012" from "PJSD012-Shimakaze-1943").
func ParseArenaInfo(data []byte) (*ArenaInfo, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse arena info: %w", err)
	}

	info := &ArenaInfo{mapName: firstString(mapDisplay.Get(root))}

	for _, v := range playerShipID.Get(root) {
		if id, ok := designatorOf(v); ok {
			info.playerShip = id
			return info, nil
		}
	}
	if vehicle := firstString(playerVehicle.Get(root)); vehicle != "" {
		index, _, _ := strings.Cut(vehicle, "-")
		info.playerShip = index
		return info, nil
	}
	return nil, ErrNoPlayerShip
}

// ReadArenaInfo reads and parses the arena-info file at path.
func ReadArenaInfo(path string) (*ArenaInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena info: %w", err)
	}
	info, err := ParseArenaInfo(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// PlayerShip returns the designator of the player's ship.
func (a *ArenaInfo) PlayerShip() string { return a.playerShip }

// MapName returns the map's display name, empty when the file omits it.
func (a *ArenaInfo) MapName() string { return a.mapName }

func designatorOf(v any) (string, bool) {
	switch id := v.(type) {
	case int64:
		return strconv.FormatInt(id, 10), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case string:
		return id, id != ""
	default:
		return "", false
	}
}

func firstString(results []any) string {
	for _, r := range results {
		if s, ok := r.(string); ok {
			return s
		}
	}
	return ""
}
