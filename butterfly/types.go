package butterfly

import (
	"errors"
	"fmt"

	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/crossing"
)

// Sentinel errors returned by the butterfly package. All failures wrap one
// of these values, so callers can branch with errors.Is.
var (
	// ErrSizeNotPowerOfTwo reports a mesh size that is not 2^k with k >= 1.
	ErrSizeNotPowerOfTwo = errors.New("butterfly: mesh size must be a power of two")

	// ErrSizeAndMatrix reports a Config supplying both or neither of Size
	// and Target; exactly one selects the construction mode.
	ErrSizeAndMatrix = errors.New("butterfly: exactly one of Size and Target must be set")

	// ErrNotUnitary reports a target matrix that fails the unitarity check.
	ErrNotUnitary = errors.New("butterfly: target matrix is not unitary")

	// ErrUnsupportedCrossing reports a crossing device that cannot solve the
	// row-targeted sub-problem the phase solver poses.
	ErrUnsupportedCrossing = errors.New("butterfly: crossing does not support the required solve mode")

	// ErrShapeMismatch reports a splitter or bias array whose shape does not
	// match the mesh geometry.
	ErrShapeMismatch = errors.New("butterfly: shape mismatch")
)

// bflyErrorf wraps a sentinel error with operation context.
func bflyErrorf(op string, sentinel error, format string, args ...any) error {
	return fmt.Errorf("butterfly: %s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}

// Config selects the construction mode and tuning of New.
//
// Exactly one of Size and Target must be set: Size builds an empty,
// zero-parameter mesh of the given size; Target additionally runs the
// decomposition so the mesh realizes the matrix.
type Config struct {
	// Size is the mesh size N for an empty mesh. Zero when Target is set.
	Size int

	// Target is the N x N unitary the mesh should realize. Nil when Size
	// is set.
	Target *cmat.Dense

	// Crossing is the 2x2 device family. Nil selects crossing.MZI{}.
	Crossing crossing.Crossing

	// Splitter holds fixed per-crossing imperfections, one (N-1) x (N/2)
	// grid of rows sized by the device's NSplitter. Nil means ideal devices.
	Splitter [][][]float64

	// PhiBias seeds the output-phase accumulator, one entry per mode. The
	// decomposition folds it through the layers, so configuring target U
	// with bias b equals configuring U·diag(e^{i·b}) without bias.
	PhiBias []float64

	// Parallel fans the four recursion branches of the decomposition out
	// over a goroutine group. The result is identical either way.
	Parallel bool

	// SkipUnitaryCheck disables the construction-time unitarity gate for
	// callers willing to accept silent accuracy loss on non-unitary input.
	SkipUnitaryCheck bool
}

// DefaultConfig returns a Config building an empty mesh of size n.
func DefaultConfig(n int) Config { return Config{Size: n} }

// FromMatrix returns a Config configuring a mesh to realize m.
func FromMatrix(m *cmat.Dense) Config { return Config{Target: m} }

// LayerTopo describes one butterfly layer: the coupling stride and the
// routing permutations that gather stride-separated mode pairs onto
// adjacent crossing ports and scatter them back.
//
// Gather[k] is the physical mode feeding port k; Scatter is its inverse
// (the port feeding each mode). Both are nil for stride-1 layers, where
// the routing is the identity.
type LayerTopo struct {
	Stride  int
	Gather  []int
	Scatter []int
}

// Topology is the full butterfly interconnection pattern for an N-mode
// mesh: N-1 layers of N/2 crossings each. It is a pure function of N.
type Topology struct {
	N      int
	Layers []LayerTopo
}
