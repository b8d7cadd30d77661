package butterfly

import (
	"github.com/photonq/meshes/crossing"
)

// Amplitudes is the arena of per-crossing target transfer matrices produced
// by the recursive decomposition: one 2x2 complex block for each (layer,
// crossing) position, stored in a flat slice.
//
// Sibling recursion branches of Decompose address disjoint (layer,
// crossing) ranges, so concurrent writes through Set never overlap.
type Amplitudes struct {
	layers    int
	crossings int
	data      []complex128 // index ((i*crossings+j)*2+a)*2 + b
}

// NewAmplitudes returns a zeroed arena for layers x crossings blocks.
func NewAmplitudes(layers, crossings int) *Amplitudes {
	return &Amplitudes{
		layers:    layers,
		crossings: crossings,
		data:      make([]complex128, layers*crossings*4),
	}
}

// Layers returns the number of layers the arena spans.
func (d *Amplitudes) Layers() int { return d.layers }

// Crossings returns the number of crossings per layer.
func (d *Amplitudes) Crossings() int { return d.crossings }

// At returns the (a, b) entry of crossing j's target block at layer i:
// the amplitude from input port b to output port a. Unchecked.
func (d *Amplitudes) At(i, j, a, b int) complex128 {
	return d.data[((i*d.crossings+j)*2+a)*2+b]
}

// Set assigns the (a, b) entry of crossing j's target block at layer i.
// Unchecked.
func (d *Amplitudes) Set(i, j, a, b int, v complex128) {
	d.data[((i*d.crossings+j)*2+a)*2+b] = v
}

// Crossing returns crossing j's full target block at layer i as a 2x2
// transfer matrix.
func (d *Amplitudes) Crossing(i, j int) crossing.Matrix2 {
	base := (i*d.crossings + j) * 4

	return crossing.Matrix2{
		{d.data[base], d.data[base+1]},
		{d.data[base+2], d.data[base+3]},
	}
}

// scaleInput multiplies the input-port-b column of crossing j's block at
// layer i by z; the phase solver uses it to absorb upstream residual
// phases into the layer's targets.
func (d *Amplitudes) scaleInput(i, j, b int, z complex128) {
	base := (i*d.crossings+j)*4 + b
	d.data[base] *= z
	d.data[base+2] *= z
}
