// pkg/core/world.go
package core

import "fmt"

// TileSize is the edge length of one tile in world pixels.
const TileSize = 64

// TilePos is a tile coordinate inside a location.
type TilePos struct {
	X int
	Y int
}

func (t TilePos) String() string {
	return fmt.Sprintf("%d, %d", t.X, t.Y)
}

// Location identifies a named world area. Name is the stable key used in
// storage; DisplayName is what players see.
type Location struct {
	Name        string
	DisplayName string
}

// Label returns the display name, falling back to Name.
func (l Location) Label() string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	return l.Name
}

// Season of the in-game calendar.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// Date is the in-game calendar position.
// TotalDays is the monotonically increasing day counter used in ledger keys.
type Date struct {
	TotalDays  int
	DayOfMonth int
	Season     Season
}
