package unitary_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/unitary"
)

// TestHaar_UnitaryAndDeterministic samples several sizes and checks
// unitarity plus the fixed-seed reproducibility policy.
func TestHaar_UnitaryAndDeterministic(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		u, err := unitary.Haar(n, 42)
		require.NoError(t, err, "n=%d", n)
		assert.True(t, unitary.IsUnitary(u, 1e-12), "n=%d sample must be unitary", n)

		again, err := unitary.Haar(n, 42)
		require.NoError(t, err)
		assert.True(t, u.Equal(again, 0), "same seed must reproduce the sample")
	}

	a, err := unitary.Haar(8, 1)
	require.NoError(t, err)
	b, err := unitary.Haar(8, 2)
	require.NoError(t, err)
	assert.False(t, a.Equal(b, 1e-6), "different seeds must differ")

	// Zero selects the fixed default seed rather than a time-based source.
	z1, err := unitary.Haar(8, 0)
	require.NoError(t, err)
	z2, err := unitary.Haar(8, 0)
	require.NoError(t, err)
	assert.True(t, z1.Equal(z2, 0))
}

// TestHaar_BadSize rejects non-positive sizes.
func TestHaar_BadSize(t *testing.T) {
	_, err := unitary.Haar(0, 1)
	assert.ErrorIs(t, err, unitary.ErrBadSize)
	_, err = unitary.Haar(-3, 1)
	assert.ErrorIs(t, err, unitary.ErrBadSize)
}

// TestDFT_KnownValues pins the 2x2 and 4x4 Fourier matrices.
func TestDFT_KnownValues(t *testing.T) {
	f2, err := unitary.DFT(2)
	require.NoError(t, err)
	s := 1 / math.Sqrt2
	assert.InDelta(t, 0, cmplx.Abs(f2.At(0, 0)-complex(s, 0)), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(f2.At(1, 1)-complex(-s, 0)), 1e-15)

	f4, err := unitary.DFT(4)
	require.NoError(t, err)
	assert.True(t, unitary.IsUnitary(f4, 1e-12), "DFT must be unitary")
	// F[1,1] = e^{-2*pi*i/4}/2 = -i/2; F[2,2] = e^{-2*pi*i}/2 = 1/2.
	assert.InDelta(t, 0, cmplx.Abs(f4.At(1, 1)-complex(0, -0.5)), 1e-14)
	assert.InDelta(t, 0, cmplx.Abs(f4.At(2, 2)-complex(0.5, 0)), 1e-14)

	_, err = unitary.DFT(0)
	assert.ErrorIs(t, err, unitary.ErrBadSize)
}

// TestIsUnitary_Negative rejects scaled and rectangular matrices.
func TestIsUnitary_Negative(t *testing.T) {
	m := cmat.Identity(3)
	assert.True(t, unitary.IsUnitary(m, 1e-15))

	m.Set(0, 0, 1.001)
	assert.False(t, unitary.IsUnitary(m, 1e-6))

	rect, err := cmat.NewDense(2, 3)
	require.NoError(t, err)
	assert.False(t, unitary.IsUnitary(rect, 1))
}

// TestDistance checks the relative Frobenius metric.
func TestDistance(t *testing.T) {
	a := cmat.Identity(2)
	assert.Equal(t, 0.0, unitary.Distance(a, a.Clone()))

	b := a.Clone()
	b.Set(0, 0, 0)
	// ||a-b|| = 1, ||b|| = 1.
	assert.InDelta(t, 1, unitary.Distance(a, b), 1e-15)

	rect, err := cmat.NewDense(2, 3)
	require.NoError(t, err)
	assert.True(t, math.IsInf(unitary.Distance(a, rect), 1), "shape mismatch is infinite distance")
}
