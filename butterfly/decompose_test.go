package butterfly_test

import (
	"context"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonq/meshes/butterfly"
	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/unitary"
)

// TestDecompose_Validation rejects rectangular and non-power-of-two input.
func TestDecompose_Validation(t *testing.T) {
	rect, err := cmat.NewDense(2, 4)
	require.NoError(t, err)
	_, err = butterfly.Decompose(context.Background(), rect, false)
	assert.ErrorIs(t, err, butterfly.ErrShapeMismatch)

	for _, n := range []int{1, 3, 6} {
		m := cmat.Identity(n)
		_, err := butterfly.Decompose(context.Background(), m, false)
		assert.ErrorIs(t, err, butterfly.ErrSizeNotPowerOfTwo, "n=%d", n)
	}
}

// TestDecompose_BaseCase checks that a 2x2 target bypasses recursion: the
// single crossing's block is the matrix itself.
func TestDecompose_BaseCase(t *testing.T) {
	u, err := unitary.Haar(2, 7)
	require.NoError(t, err)

	amps, err := butterfly.Decompose(context.Background(), u, false)
	require.NoError(t, err)
	assert.Equal(t, 1, amps.Layers())
	assert.Equal(t, 1, amps.Crossings())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			assert.Equal(t, u.At(a, b), amps.At(0, 0, a, b), "entry (%d,%d)", a, b)
		}
	}
}

// TestDecompose_LeafBlocksUnitary checks that every crossing's target block
// of a Haar decomposition is itself unitary: the leaves carry the full 2x2
// sub-unitaries with no residual decomposition error.
func TestDecompose_LeafBlocksUnitary(t *testing.T) {
	u, err := unitary.Haar(8, 3)
	require.NoError(t, err)

	amps, err := butterfly.Decompose(context.Background(), u, false)
	require.NoError(t, err)
	for i := 0; i < amps.Layers(); i++ {
		for j := 0; j < amps.Crossings(); j++ {
			blk := amps.Crossing(i, j)
			// Unitarity of [[a,b],[c,d]]: unit rows and orthogonal rows.
			r0 := cmplx.Abs(blk[0][0])*cmplx.Abs(blk[0][0]) + cmplx.Abs(blk[0][1])*cmplx.Abs(blk[0][1])
			r1 := cmplx.Abs(blk[1][0])*cmplx.Abs(blk[1][0]) + cmplx.Abs(blk[1][1])*cmplx.Abs(blk[1][1])
			dot := blk[0][0]*cmplx.Conj(blk[1][0]) + blk[0][1]*cmplx.Conj(blk[1][1])
			assert.InDelta(t, 1, r0, 1e-11, "layer %d crossing %d row 0", i, j)
			assert.InDelta(t, 1, r1, 1e-11, "layer %d crossing %d row 1", i, j)
			assert.InDelta(t, 0, cmplx.Abs(dot), 1e-11, "layer %d crossing %d row overlap", i, j)
		}
	}
}

// TestDecompose_IdentityLeaves verifies the identity target factors into
// identity blocks at every crossing.
func TestDecompose_IdentityLeaves(t *testing.T) {
	amps, err := butterfly.Decompose(context.Background(), cmat.Identity(8), false)
	require.NoError(t, err)
	for i := 0; i < amps.Layers(); i++ {
		for j := 0; j < amps.Crossings(); j++ {
			blk := amps.Crossing(i, j)
			assert.InDelta(t, 0, cmplx.Abs(blk[0][0]-1), 1e-12, "layer %d crossing %d", i, j)
			assert.InDelta(t, 0, cmplx.Abs(blk[1][1]-1), 1e-12, "layer %d crossing %d", i, j)
			assert.InDelta(t, 0, cmplx.Abs(blk[0][1]), 1e-12, "layer %d crossing %d", i, j)
			assert.InDelta(t, 0, cmplx.Abs(blk[1][0]), 1e-12, "layer %d crossing %d", i, j)
		}
	}
}

// TestDecompose_ParallelMatchesSequential runs both recursion modes over
// the same target and compares the arenas entry for entry.
func TestDecompose_ParallelMatchesSequential(t *testing.T) {
	u, err := unitary.Haar(64, 11)
	require.NoError(t, err)

	seq, err := butterfly.Decompose(context.Background(), u, false)
	require.NoError(t, err)
	par, err := butterfly.Decompose(context.Background(), u, true)
	require.NoError(t, err)

	for i := 0; i < seq.Layers(); i++ {
		for j := 0; j < seq.Crossings(); j++ {
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					assert.Equal(t, seq.At(i, j, a, b), par.At(i, j, a, b),
						"entry (%d,%d,%d,%d)", i, j, a, b)
				}
			}
		}
	}
}
