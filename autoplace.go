package antiwarp

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Candidate is a host object eligible for automatic tab placement.
type Candidate struct {
	Object    ObjectID
	Footprint Footprint
}

// PlacementRequest asks for a tab anchored at Anchor on Object.
type PlacementRequest struct {
	Anchor r3.Vec
	Object ObjectID
}

// farAway is the initial last placed position of a planning pass. It lies
// outside any real build plate.
var farAway = r2.Vec{X: 99999, Y: 99999}

// DefaultSpacing returns the recommended minimum distance between
// automatically placed tabs for a given pad diameter.
func DefaultSpacing(padDiameter float64) float64 {
	return DefaultSpacingFactor * padDiameter
}

// Plan walks the boundary of every candidate footprint in order and returns a
// placement request for each boundary point that lies at least spacing away
// from the previously placed one. The last point of a footprint must also lie
// at least spacing away from the footprint's first point so the loop does not
// close on a crowded pair. Distances are rounded to whole millimetres.
//
// The last placed position carries over from one candidate to the next.
func Plan(candidates []Candidate, spacing float64) []PlacementRequest {
	var reqs []PlacementRequest
	last := farAway
	for _, c := range candidates {
		fp := c.Footprint
		if len(fp) == 0 {
			continue
		}
		first := fp[0]
		for i, p := range fp {
			d := roundMM(r2.Norm(r2.Sub(last, p)))
			ok := d >= spacing
			if i == len(fp)-1 {
				ok = ok && roundMM(r2.Norm(r2.Sub(first, p))) >= spacing
			}
			if !ok {
				continue
			}
			reqs = append(reqs, PlacementRequest{
				Anchor: r3.Vec{X: p.X, Y: p.Y},
				Object: c.Object,
			})
			last = p
		}
	}
	return reqs
}
