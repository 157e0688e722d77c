package world

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestHexNeighborsDistinctAtDistanceOne(t *testing.T) {
	origin := HexCoord{Q: 0, R: 0}
	seen := make(map[HexCoord]bool)
	for _, n := range origin.Neighbors() {
		if seen[n] {
			t.Fatalf("duplicate neighbor %+v", n)
		}
		seen[n] = true
		if d := Distance(origin, n); d != 1 {
			t.Fatalf("neighbor %+v at distance %d", n, d)
		}
	}
}

func TestHexDistance(t *testing.T) {
	cases := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{3, 0}, 3},
		{HexCoord{0, 0}, HexCoord{2, -2}, 2},
		{HexCoord{-1, 2}, HexCoord{3, -1}, 4},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Fatalf("Distance(%+v, %+v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Fatalf("distance not symmetric for %+v, %+v", c.a, c.b)
		}
	}
}

func TestCurrentValidate(t *testing.T) {
	good := OceanCurrent{
		Name:       "Trade Wind Drift",
		Zone:       orb.Bound{Min: orb.Point{-60, -10}, Max: orb.Point{-10, 10}},
		DirEast:    -3,
		DirNorth:   4,
		Multiplier: 0.8,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid current rejected: %v", err)
	}

	bad := []OceanCurrent{
		{Name: "zero mult", DirEast: 1, Multiplier: 0},
		{Name: "over one", DirEast: 1, Multiplier: 1.2},
		{Name: "no direction", Multiplier: 0.5},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("current %q should fail validation", c.Name)
		}
	}

	good.Normalize()
	if a := good.Alignment(-0.6, 0.8); a < 0.999 {
		t.Fatalf("alignment with own direction = %v, want 1", a)
	}
}
