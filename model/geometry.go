package model

import (
	"encoding/json"
	"math"
)

// Coords are world coordinates. The universe is centered on (0, 0).
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center of the universe, used by distance-to-center rankings.
var Center = Coords{}

// Dist is the Euclidean distance between two coordinate pairs.
func Dist(a, b Coords) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Location is either Located (coordinates known to this client) or
// Unlocated. Anything that needs coordinates must go through Coords and
// treat the planet as ineligible when ok is false.
type Location struct {
	coords *Coords
}

// Located returns a Location with known coordinates.
func Located(c Coords) Location { return Location{coords: &c} }

// Unlocated returns a Location without coordinates.
func Unlocated() Location { return Location{} }

// Coords returns the coordinates and whether the location is known.
func (l Location) Coords() (Coords, bool) {
	if l.coords == nil {
		return Coords{}, false
	}
	return *l.coords, true
}

func (l Location) IsLocated() bool { return l.coords != nil }

// The host sends {"coords":{"x":..,"y":..}} for located planets and either
// null or {} otherwise.
type locationJSON struct {
	Coords *Coords `json:"coords,omitempty"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{Coords: l.coords})
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var raw *locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		l.coords = nil
		return nil
	}
	l.coords = raw.Coords
	return nil
}
