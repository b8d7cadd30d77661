// Package crossing defines the capability contract for programmable
// 2-input/2-output optical devices and implements the default
// Mach-Zehnder interferometer (MZI) device family.
//
// A crossing is described by a forward map from physical parameters to a
// 2x2 complex transfer matrix, and by an inverse solve that recovers
// parameters reproducing a structural sub-problem of a target transfer.
// Mesh-configuration algorithms consume the Crossing interface only; the
// device family stays swappable.
//
// Errors:
//
//	ErrUnsupportedMode   - the device cannot solve the requested sub-problem.
//	ErrUnreachableTarget - the target amplitudes lie outside the device's range.
//	ErrBadParams         - a parameter slice has the wrong cardinality.
package crossing

import (
	"errors"
	"fmt"
)

// Sentinel errors for crossing operations.
var (
	// ErrUnsupportedMode indicates a solve mode outside the device's capability.
	ErrUnsupportedMode = errors.New("crossing: unsupported solve mode")

	// ErrUnreachableTarget indicates target amplitudes no parameter choice can realize.
	ErrUnreachableTarget = errors.New("crossing: target outside reachable amplitude range")

	// ErrBadParams indicates a phase or splitter slice of the wrong length.
	ErrBadParams = errors.New("crossing: wrong parameter count")
)

// Matrix2 is a 2x2 complex transfer matrix, indexed [output][input].
type Matrix2 [2][2]complex128

// Apply maps the input pair (a, b) to the output pair.
func (m Matrix2) Apply(a, b complex128) (complex128, complex128) {
	return m[0][0]*a + m[0][1]*b, m[1][0]*a + m[1][1]*b
}

// Row returns output row r of the transfer matrix.
func (m Matrix2) Row(r int) [2]complex128 { return m[r] }

// SolveMode selects which structural sub-problem Solve addresses.
type SolveMode int

const (
	// SolveRow0 recovers parameters from the first transfer row (T00, T01),
	// the sub-problem posed by the layer-by-layer phase solver. Only the
	// ratio of the two amplitudes is constrained; the row's overall phase
	// is left to the caller's residual bookkeeping.
	SolveRow0 SolveMode = iota

	// SolveT00 matches the single amplitude T00, absolute phase included.
	SolveT00
)

// String implements fmt.Stringer for diagnostics.
func (m SolveMode) String() string {
	switch m {
	case SolveRow0:
		return "SolveRow0"
	case SolveT00:
		return "SolveT00"
	default:
		return fmt.Sprintf("SolveMode(%d)", int(m))
	}
}

// Crossing is the capability contract for a 2x2 device family.
//
// NPhase and NSplitter report per-crossing parameter cardinality. Transfer
// is the forward map; splitter imperfections are fixed inputs, never solved
// for. Solve inverts Transfer for the sub-problem selected by mode and must
// return exactly NPhase parameters. Supports reports whether a mode is
// available without attempting a solve.
type Crossing interface {
	// NPhase returns the number of solvable phase parameters.
	NPhase() int

	// NSplitter returns the number of fixed imperfection parameters.
	NSplitter() int

	// Transfer computes the 2x2 transfer matrix for the given parameters.
	// phase must have length NPhase; splitter must be nil or length NSplitter.
	Transfer(phase, splitter []float64) (Matrix2, error)

	// Solve recovers phase parameters reproducing the target amplitudes
	// under the given mode. The meaning of target depends on the mode.
	Solve(target [2]complex128, mode SolveMode, splitter []float64) ([]float64, error)

	// Supports reports whether Solve implements the given mode.
	Supports(mode SolveMode) bool
}
