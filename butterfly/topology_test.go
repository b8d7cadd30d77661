package butterfly_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonq/meshes/butterfly"
)

// TestNewTopology_SizeValidation rejects everything but powers of two >= 2.
func TestNewTopology_SizeValidation(t *testing.T) {
	for _, n := range []int{-4, 0, 1, 3, 6, 12, 100} {
		_, err := butterfly.NewTopology(n)
		assert.ErrorIs(t, err, butterfly.ErrSizeNotPowerOfTwo, "n=%d", n)
	}
	for _, n := range []int{2, 4, 8, 64} {
		topo, err := butterfly.NewTopology(n)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, topo.N)
		assert.Len(t, topo.Layers, n-1)
	}
}

// TestNewTopology_Strides pins the radix-2 stride sequence.
func TestNewTopology_Strides(t *testing.T) {
	strides := func(n int) []int {
		topo, err := butterfly.NewTopology(n)
		require.NoError(t, err)
		out := make([]int, len(topo.Layers))
		for i, lt := range topo.Layers {
			out[i] = lt.Stride
		}

		return out
	}

	assert.Equal(t, []int{1}, strides(2))
	assert.Equal(t, []int{1, 2, 1}, strides(4))
	assert.Equal(t, []int{1, 2, 1, 4, 1, 2, 1}, strides(8))
	assert.Equal(t, []int{1, 2, 1, 4, 1, 2, 1, 8, 1, 2, 1, 4, 1, 2, 1}, strides(16))
}

// TestNewTopology_RoutingBijections checks that every layer's routings are
// mutually inverse bijections pairing modes at the layer's stride.
func TestNewTopology_RoutingBijections(t *testing.T) {
	topo, err := butterfly.NewTopology(16)
	require.NoError(t, err)

	for i, lt := range topo.Layers {
		if lt.Stride == 1 {
			assert.Nil(t, lt.Gather, "layer %d", i)
			assert.Nil(t, lt.Scatter, "layer %d", i)
			continue
		}
		require.Len(t, lt.Gather, topo.N, "layer %d", i)
		require.Len(t, lt.Scatter, topo.N, "layer %d", i)

		seen := make([]bool, topo.N)
		for k, m := range lt.Gather {
			require.False(t, seen[m], "layer %d duplicates mode %d", i, m)
			seen[m] = true
			assert.Equal(t, k, lt.Scatter[m], "layer %d: scatter must invert gather", i)
		}
		// Ports 2j and 2j+1 must carry modes exactly Stride apart.
		for j := 0; j < topo.N/2; j++ {
			assert.Equal(t, lt.Stride, lt.Gather[2*j+1]-lt.Gather[2*j],
				"layer %d crossing %d pair distance", i, j)
		}
	}
}

// TestNewTopology_Deterministic builds the same topology twice and diffs.
func TestNewTopology_Deterministic(t *testing.T) {
	a, err := butterfly.NewTopology(32)
	require.NoError(t, err)
	b, err := butterfly.NewTopology(32)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b), "topology must depend on n alone")
}
