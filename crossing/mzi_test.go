package crossing_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonq/meshes/crossing"
)

const tol = 1e-12

// assertMatrix2Equal compares two transfer matrices entrywise in modulus.
func assertMatrix2Equal(t *testing.T, want, got crossing.Matrix2) {
	t.Helper()
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			assert.InDelta(t, 0, cmplx.Abs(want[a][b]-got[a][b]), tol,
				"entry (%d,%d): want %v, got %v", a, b, want[a][b], got[a][b])
		}
	}
}

// assertUnitary2 checks T·Tᴴ = I for a 2x2 transfer.
func assertUnitary2(t *testing.T, m crossing.Matrix2) {
	t.Helper()
	r0, r1 := m.Row(0), m.Row(1)
	p00 := real(r0[0])*real(r0[0]) + imag(r0[0])*imag(r0[0]) + real(r0[1])*real(r0[1]) + imag(r0[1])*imag(r0[1])
	p11 := real(r1[0])*real(r1[0]) + imag(r1[0])*imag(r1[0]) + real(r1[1])*real(r1[1]) + imag(r1[1])*imag(r1[1])
	cross := r0[0]*cmplx.Conj(r1[0]) + r0[1]*cmplx.Conj(r1[1])
	assert.InDelta(t, 1, p00, tol, "row 0 power")
	assert.InDelta(t, 1, p11, tol, "row 1 power")
	assert.InDelta(t, 0, cmplx.Abs(cross), tol, "row orthogonality")
}

// TestMZI_TransferUnitary sweeps parameters, with and without splitter
// imperfections, and checks unitarity of the forward map.
func TestMZI_TransferUnitary(t *testing.T) {
	x := crossing.MZI{}
	thetas := []float64{0, 0.3, math.Pi / 2, 2.0, math.Pi}
	phis := []float64{-2.5, 0, 0.7, 3.0}
	splitters := [][]float64{nil, {0.1, -0.05}, {0.4, 0.3}}

	for _, th := range thetas {
		for _, ph := range phis {
			for _, sp := range splitters {
				tm, err := x.Transfer([]float64{th, ph}, sp)
				require.NoError(t, err)
				assertUnitary2(t, tm)
			}
		}
	}
}

// TestMZI_BarAndCrossStates pins the two degenerate switch settings of an
// ideal device: theta=pi keeps light in its lane, theta=0 swaps lanes.
func TestMZI_BarAndCrossStates(t *testing.T) {
	x := crossing.MZI{}

	bar, err := x.Transfer([]float64{math.Pi, 0}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(bar[0][1]), tol, "bar state has no lane swap")
	assert.InDelta(t, 0, cmplx.Abs(bar[1][0]), tol, "bar state has no lane swap")
	assert.InDelta(t, 1, cmplx.Abs(bar[0][0]), tol)

	cross, err := x.Transfer([]float64{0, 0}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(cross[0][0]), tol, "cross state keeps nothing in lane")
	assert.InDelta(t, 0, cmplx.Abs(cross[1][1]), tol, "cross state keeps nothing in lane")
	assert.InDelta(t, 1, cmplx.Abs(cross[0][1]), tol)
}

// TestMZI_SolveRow0_Roundtrip solves the first row of a known transfer and
// expects the exact parameters back, ideal and imperfect alike.
func TestMZI_SolveRow0_Roundtrip(t *testing.T) {
	x := crossing.MZI{}
	thetas := []float64{0.3, 1.1, math.Pi / 2, 2.0, 2.8}
	phis := []float64{-2.0, -0.3, 0, 1.2, 2.9}
	splitters := [][]float64{nil, {0.08, -0.03}, {-0.15, 0.1}}

	for _, th := range thetas {
		for _, ph := range phis {
			for _, sp := range splitters {
				want, err := x.Transfer([]float64{th, ph}, sp)
				require.NoError(t, err)

				params, err := x.Solve(want.Row(0), crossing.SolveRow0, sp)
				require.NoError(t, err)
				assert.InDelta(t, th, params[0], 1e-9, "theta recovered")

				got, err := x.Transfer(params, sp)
				require.NoError(t, err)
				assertMatrix2Equal(t, want, got)
			}
		}
	}
}

// TestMZI_SolveRow0_ScaleInvariant verifies the ratio-based solve ignores
// an overall row scale.
func TestMZI_SolveRow0_ScaleInvariant(t *testing.T) {
	x := crossing.MZI{}
	want, err := x.Transfer([]float64{1.2, -0.7}, nil)
	require.NoError(t, err)

	row := want.Row(0)
	scaled := [2]complex128{row[0] * 3, row[1] * 3}
	params, err := x.Solve(scaled, crossing.SolveRow0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, params[0], 1e-9)
	assert.InDelta(t, -0.7, params[1], 1e-9)
}

// TestMZI_SolveT00 matches a single amplitude, absolute phase included.
func TestMZI_SolveT00(t *testing.T) {
	x := crossing.MZI{}
	want, err := x.Transfer([]float64{1.8, 0.9}, nil)
	require.NoError(t, err)

	params, err := x.Solve([2]complex128{want[0][0], 0}, crossing.SolveT00, nil)
	require.NoError(t, err)
	got, err := x.Transfer(params, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(want[0][0]-got[0][0]), 1e-12, "T00 reproduced exactly")
}

// TestMZI_UnreachableTarget asks an imperfect device for a bar state it
// cannot reach.
func TestMZI_UnreachableTarget(t *testing.T) {
	x := crossing.MZI{}

	// alpha=-beta shrinks the reachable ratio band to [0, cos²(2·alpha)].
	_, err := x.Solve([2]complex128{1, 0}, crossing.SolveRow0, []float64{0.3, -0.3})
	assert.ErrorIs(t, err, crossing.ErrUnreachableTarget)

	// An ideal device reaches the full band.
	_, err = x.Solve([2]complex128{1, 0}, crossing.SolveRow0, nil)
	assert.NoError(t, err)

	// The zero row pins no ratio at all.
	_, err = x.Solve([2]complex128{0, 0}, crossing.SolveRow0, nil)
	assert.ErrorIs(t, err, crossing.ErrUnreachableTarget)
}

// TestMZI_Validation covers mode and cardinality errors.
func TestMZI_Validation(t *testing.T) {
	x := crossing.MZI{}

	assert.True(t, x.Supports(crossing.SolveRow0))
	assert.True(t, x.Supports(crossing.SolveT00))
	assert.False(t, x.Supports(crossing.SolveMode(99)))

	_, err := x.Solve([2]complex128{1, 0}, crossing.SolveMode(99), nil)
	assert.ErrorIs(t, err, crossing.ErrUnsupportedMode)

	_, err = x.Transfer([]float64{1}, nil)
	assert.ErrorIs(t, err, crossing.ErrBadParams)

	_, err = x.Transfer([]float64{1, 2}, []float64{0.1})
	assert.ErrorIs(t, err, crossing.ErrBadParams)

	_, err = x.Solve([2]complex128{1, 0}, crossing.SolveRow0, []float64{0.1, 0.2, 0.3})
	assert.ErrorIs(t, err, crossing.ErrBadParams)
}

// TestMZI_ApplyAgreesWithRows checks the pair-map helper against direct
// row arithmetic.
func TestMZI_ApplyAgreesWithRows(t *testing.T) {
	x := crossing.MZI{}
	tm, err := x.Transfer([]float64{0.9, 0.2}, []float64{0.05, 0.02})
	require.NoError(t, err)

	in0, in1 := 0.6+0.3i, -0.2+0.9i
	out0, out1 := tm.Apply(in0, in1)
	assert.InDelta(t, 0, cmplx.Abs(out0-(tm[0][0]*in0+tm[0][1]*in1)), tol)
	assert.InDelta(t, 0, cmplx.Abs(out1-(tm[1][0]*in0+tm[1][1]*in1)), tol)
}
