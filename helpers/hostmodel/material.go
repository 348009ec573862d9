package hostmodel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = Material{shrink: 0.2e-2} // 0.2% shrinkage
	// ABS warps noticeably on open frame printers and is the usual reason
	// tabs get added.
	ABS = Material{shrink: 0.7e-2}
)

// Material models the thermal contraction of a printed part once it cools to
// room temperature. The outer rim of a part shrinks first, which is what lifts
// its corners off the build plate.
type Material struct {
	shrink float64
}

// Shrink returns the linear shrinkage fraction of the material.
func (m Material) Shrink() float64 { return m.shrink }

// Compensate scales s up so that it cools to its designed size.
func (m Material) Compensate(s sdf.SDF3) sdf.SDF3 {
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}

// Contraction returns how much a dimension of given length contracts on cooling.
func (m Material) Contraction(length float64) float64 {
	if length < 0 {
		panic("Contraction only works for non-negative lengths")
	}
	return length * m.shrink
}

// MaterialByName returns the material named "pla" or "abs".
func MaterialByName(name string) (Material, error) {
	switch name {
	case "pla", "PLA":
		return PLA, nil
	case "abs", "ABS":
		return ABS, nil
	}
	return Material{}, fmt.Errorf("unknown material %q", name)
}
