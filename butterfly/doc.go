// Package butterfly configures FFT-butterfly photonic meshes: it generates
// the butterfly interconnection topology, recursively factors a target
// unitary into per-crossing 2x2 amplitudes, and solves those amplitudes
// into physical crossing parameters plus an output phase screen.
//
// A butterfly mesh on N modes (N a power of two) has N-1 layers of N/2
// crossings. Layer i couples modes at stride 2^v, where v is the index of
// the lowest set bit of i+1, so strides cycle 1,2,1,4,1,2,1,... exactly as
// in a radix-2 FFT; the maximal stride N/2 sits at the middle layer.
//
// Configuration runs in three stages:
//
//  1. NewTopology derives each layer's stride and routing permutations
//     from N alone.
//  2. Decompose recursively block-SVD-factors the target matrix into the
//     Amplitudes arena, one 2x2 target per crossing. Sibling recursion
//     branches write disjoint arena ranges and may run in parallel.
//  3. SolvePhases walks the layers in propagation order, converting each
//     crossing's target amplitudes into device parameters while threading
//     the residual per-mode phases forward into the next layer and,
//     finally, into the output phase screen.
//
// New ties the stages together behind a single Config, producing a
// ready-to-propagate mesh.Network.
//
// Errors:
//
//	ErrSizeNotPowerOfTwo  - mesh size is not 2^k with k >= 1.
//	ErrSizeAndMatrix      - both or neither of Size and Target supplied.
//	ErrNotUnitary         - the target matrix fails the unitarity check.
//	ErrUnsupportedCrossing - the crossing device lacks the required solve mode.
//	ErrShapeMismatch      - a splitter or bias array has the wrong shape.
package butterfly
