package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the mesh package. All failures wrap one of
// these values, so callers can branch with errors.Is.
var (
	// ErrBadModeCount reports a mode count that is not a positive even number.
	ErrBadModeCount = errors.New("mesh: mode count must be a positive even number")

	// ErrNilCrossing reports a missing crossing device.
	ErrNilCrossing = errors.New("mesh: crossing device is nil")

	// ErrUnsupportedPhasePos reports a phase-screen placement the container
	// cannot realize.
	ErrUnsupportedPhasePos = errors.New("mesh: unsupported phase screen position")

	// ErrBadPermutation reports a routing slice that is not a bijection on
	// the mode indices.
	ErrBadPermutation = errors.New("mesh: routing is not a permutation of modes")

	// ErrShapeMismatch reports a parameter or field array whose length does
	// not match the network geometry.
	ErrShapeMismatch = errors.New("mesh: shape mismatch")

	// ErrLayerBounds reports a crossing window that falls outside the mode
	// range.
	ErrLayerBounds = errors.New("mesh: crossing window out of range")
)

// meshErrorf wraps a sentinel error with operation context.
func meshErrorf(op string, sentinel error, format string, args ...any) error {
	return fmt.Errorf("mesh: %s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}

// PhasePosition selects where the global phase screen sits relative to the
// crossing layers.
type PhasePosition int

const (
	// PhaseOutput places one phase shifter per mode after the last layer.
	PhaseOutput PhasePosition = iota

	// PhaseInput places the screen before the first layer. Named for
	// completeness; New rejects it.
	PhaseInput
)

// String implements fmt.Stringer.
func (p PhasePosition) String() string {
	switch p {
	case PhaseOutput:
		return "output"
	case PhaseInput:
		return "input"
	default:
		return fmt.Sprintf("PhasePosition(%d)", int(p))
	}
}

// Layer is one crossing column of the network.
//
// Propagation order within the layer: the In routing maps physical modes to
// crossing ports (port k reads mode In[k]), then crossing j acts on the
// port pair (Offset+2j, Offset+2j+1), ports outside the window pass
// through, and finally the Out routing maps back (mode m reads port
// Out[m]). A nil routing is the identity.
//
// Phase and Splitter hold one row per crossing, sized by the device's
// NPhase and NSplitter. They are exported so configuration algorithms can
// write solved parameters in place; the container never mutates them.
type Layer struct {
	// Count is the number of crossings in the layer.
	Count int

	// Offset is the first port of the crossing window.
	Offset int

	// Stride records the port distance the layer's routing realizes between
	// paired modes. Metadata for topology consumers; propagation ignores it.
	Stride int

	// In routes physical modes to crossing ports: port k reads mode In[k].
	// Nil means identity.
	In []int

	// Out routes crossing ports to physical modes: mode m reads port Out[m].
	// Nil means identity.
	Out []int

	// Phase holds per-crossing phase parameters, Count rows of NPhase.
	Phase [][]float64

	// Splitter holds per-crossing splitter imperfections, Count rows of
	// NSplitter.
	Splitter [][]float64
}

// Option configures optional Network behavior at construction time.
type Option func(*Network)

// WithPhasePosition selects the phase-screen placement. The default is
// PhaseOutput, which is also the only supported value.
func WithPhasePosition(pos PhasePosition) Option {
	return func(n *Network) { n.phasePos = pos }
}
