package world

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// OceanCurrent is a named directional zone. Water edges whose heading
// aligns with the current's direction travel cheaper; a current never makes
// travel more expensive (multiplier is always in (0, 1]).
type OceanCurrent struct {
	Name string `json:"name"`

	// Zone is the lat/lng bounding box the current occupies.
	// orb convention: points are (lng, lat).
	Zone orb.Bound `json:"zone"`

	// DirEast and DirNorth form the current's normalized direction vector.
	DirEast  float64 `json:"dir_east"`
	DirNorth float64 `json:"dir_north"`

	// Multiplier applied to the base edge cost when the edge runs with
	// the current. In (0, 1].
	Multiplier float64 `json:"multiplier"`
}

// Validate checks the current's invariants: a multiplier in (0, 1] and a
// non-degenerate direction vector.
func (c *OceanCurrent) Validate() error {
	if c.Multiplier <= 0 || c.Multiplier > 1 {
		return fmt.Errorf("current %q: multiplier %v outside (0, 1]", c.Name, c.Multiplier)
	}
	if math.Hypot(c.DirEast, c.DirNorth) == 0 {
		return fmt.Errorf("current %q: zero direction vector", c.Name)
	}
	return nil
}

// Normalize scales the direction vector to unit length.
func (c *OceanCurrent) Normalize() {
	l := math.Hypot(c.DirEast, c.DirNorth)
	if l == 0 {
		return
	}
	c.DirEast /= l
	c.DirNorth /= l
}

// Contains reports whether the point (lng, lat) lies inside the zone.
func (c *OceanCurrent) Contains(lng, lat float64) bool {
	return c.Zone.Contains(orb.Point{lng, lat})
}

// Alignment returns the dot product of the current's direction with the
// given normalized heading (east, north components).
func (c *OceanCurrent) Alignment(headEast, headNorth float64) float64 {
	return c.DirEast*headEast + c.DirNorth*headNorth
}
