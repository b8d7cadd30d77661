package butterfly

import "math/bits"

// NewTopology derives the butterfly interconnection pattern for an n-mode
// mesh.
//
// Stage 1 (Validate): n must be 2^k with k >= 1.
// Stage 2 (Strides): layer i couples at stride 2^v, v = index of the lowest
// set bit of i+1.
// Stage 3 (Routing): layers with stride s > 1 get gather/scatter
// permutations; within each of the n/(2s) blocks of 2s modes, mode r pairs
// with mode r+s.
//
// The result depends only on n; two calls yield identical topologies.
// Complexity: O(n^2) time and memory (n-1 layers of n-length routings).
func NewTopology(n int) (*Topology, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, bflyErrorf("NewTopology", ErrSizeNotPowerOfTwo, "got %d", n)
	}
	topo := &Topology{N: n, Layers: make([]LayerTopo, n-1)}
	for i := range topo.Layers {
		s := layerStride(i)
		lt := LayerTopo{Stride: s}
		if s > 1 {
			lt.Gather, lt.Scatter = strideRouting(n, s)
		}
		topo.Layers[i] = lt
	}

	return topo, nil
}

// layerStride returns 2^v for layer i, v = index of the lowest set bit of
// i+1 (the FFT radix-2 stride sequence 1,2,1,4,1,2,1,8,...).
func layerStride(i int) int {
	return 1 << bits.TrailingZeros(uint(i+1))
}

// strideRouting builds the gather permutation pairing modes at distance s
// onto adjacent ports, and its inverse. Crossing j = b*s + r sits in block
// b and reads modes 2sb+r and 2sb+r+s on ports 2j and 2j+1.
func strideRouting(n, s int) (gather, scatter []int) {
	gather = make([]int, n)
	scatter = make([]int, n)
	for b := 0; b < n/(2*s); b++ {
		for r := 0; r < s; r++ {
			j := b*s + r
			gather[2*j] = 2*s*b + r
			gather[2*j+1] = 2*s*b + r + s
		}
	}
	for k, m := range gather {
		scatter[m] = k
	}

	return gather, scatter
}
