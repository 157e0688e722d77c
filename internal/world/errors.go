package world

import "fmt"

// DataIntegrityError reports contradictory spatial data discovered while
// building the world graph, e.g. two regions claiming the same hex. Fatal:
// world initialization must abort, since a corrupt coordinate index breaks
// shortest-path correctness silently.
type DataIntegrityError struct {
	Coord   HexCoord
	Regions [2]RegionID
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("duplicate region coordinate (%d, %d): regions %d and %d",
		e.Coord.Q, e.Coord.R, e.Regions[0], e.Regions[1])
}
