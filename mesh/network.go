package mesh

import (
	"github.com/photonq/meshes/crossing"
)

// Network is a layered interferometer on a fixed number of modes. Layers
// are appended with AddLayer / AddLayerAt and parameterized in place; the
// output phase screen is set with SetOutputPhase.
type Network struct {
	modes    int
	dev      crossing.Crossing
	phasePos PhasePosition
	layers   []*Layer
	outPhase []float64
}

// New returns an empty network on modes modes driven by the crossing
// device dev.
//
// modes must be a positive even number and dev non-nil. Options are applied
// before validation, so an unsupported phase position fails here rather
// than at propagation time.
func New(modes int, dev crossing.Crossing, opts ...Option) (*Network, error) {
	if modes <= 0 || modes%2 != 0 {
		return nil, meshErrorf("New", ErrBadModeCount, "got %d", modes)
	}
	if dev == nil {
		return nil, meshErrorf("New", ErrNilCrossing, "modes=%d", modes)
	}
	n := &Network{
		modes:    modes,
		dev:      dev,
		phasePos: PhaseOutput,
		outPhase: make([]float64, modes),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.phasePos != PhaseOutput {
		return nil, meshErrorf("New", ErrUnsupportedPhasePos, "%s", n.phasePos)
	}
	return n, nil
}

// AddLayer appends a full crossing column: modes/2 crossings starting at
// port 0. See AddLayerAt.
func (n *Network) AddLayer(stride int, in, out []int) (*Layer, error) {
	return n.AddLayerAt(stride, n.modes/2, 0, in, out)
}

// AddLayerAt appends a layer of count crossings whose window starts at port
// offset. in and out are the layer's routings (nil for identity); each must
// be a permutation of the mode indices. The returned layer's Phase and
// Splitter rows are allocated zeroed and sized by the crossing device.
//
// Errors: ErrLayerBounds when the window [offset, offset+2*count) leaves
// the mode range, ErrBadPermutation when a routing is not a bijection.
func (n *Network) AddLayerAt(stride, count, offset int, in, out []int) (*Layer, error) {
	if count < 1 || offset < 0 || offset+2*count > n.modes {
		return nil, meshErrorf("AddLayerAt", ErrLayerBounds,
			"count=%d offset=%d modes=%d", count, offset, n.modes)
	}
	if err := n.checkRouting("in", in); err != nil {
		return nil, err
	}
	if err := n.checkRouting("out", out); err != nil {
		return nil, err
	}
	ly := &Layer{
		Count:    count,
		Offset:   offset,
		Stride:   stride,
		In:       in,
		Out:      out,
		Phase:    newRows(count, n.dev.NPhase()),
		Splitter: newRows(count, n.dev.NSplitter()),
	}
	n.layers = append(n.layers, ly)
	return ly, nil
}

// checkRouting validates that p is nil or a permutation of [0, modes).
func (n *Network) checkRouting(name string, p []int) error {
	if p == nil {
		return nil
	}
	if len(p) != n.modes {
		return meshErrorf("AddLayerAt", ErrBadPermutation,
			"%s routing has length %d, want %d", name, len(p), n.modes)
	}
	seen := make([]bool, n.modes)
	for k, m := range p {
		if m < 0 || m >= n.modes || seen[m] {
			return meshErrorf("AddLayerAt", ErrBadPermutation,
				"%s routing entry %d (mode %d)", name, k, m)
		}
		seen[m] = true
	}
	return nil
}

// newRows allocates r zeroed parameter rows of width c.
func newRows(r, c int) [][]float64 {
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
	}
	return rows
}

// Modes returns the number of optical modes.
func (n *Network) Modes() int { return n.modes }

// Depth returns the number of crossing layers.
func (n *Network) Depth() int { return len(n.layers) }

// Crossing returns the crossing device the network propagates with.
func (n *Network) Crossing() crossing.Crossing { return n.dev }

// PhasePos returns the phase-screen placement.
func (n *Network) PhasePos() PhasePosition { return n.phasePos }

// Layer returns the i-th layer. The pointer is live: configuration
// algorithms write Phase and Splitter rows through it.
func (n *Network) Layer(i int) (*Layer, error) {
	if i < 0 || i >= len(n.layers) {
		return nil, meshErrorf("Layer", ErrLayerBounds, "index %d, depth %d", i, len(n.layers))
	}
	return n.layers[i], nil
}

// OutputPhase returns a copy of the output phase screen.
func (n *Network) OutputPhase() []float64 {
	out := make([]float64, len(n.outPhase))
	copy(out, n.outPhase)
	return out
}

// SetOutputPhase replaces the output phase screen. phases must have one
// entry per mode.
func (n *Network) SetOutputPhase(phases []float64) error {
	if len(phases) != n.modes {
		return meshErrorf("SetOutputPhase", ErrShapeMismatch,
			"got %d phases, want %d", len(phases), n.modes)
	}
	copy(n.outPhase, phases)
	return nil
}
