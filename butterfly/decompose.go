package butterfly

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/photonq/meshes/cmat"
)

// parallelCutoff is the smallest block size whose recursion branches fan
// out over goroutines. Below it the per-branch work no longer pays for the
// scheduling.
const parallelCutoff = 64

// Decompose recursively factors the square target matrix u into the
// Amplitudes arena: one 2x2 target block per (layer, crossing) position of
// the butterfly mesh realizing u.
//
// Stage 1 (Validate): u must be square with power-of-two size >= 2.
// Stage 2 (Recurse): block SVD. The current block's two diagonal quadrants
// are factored as U11 = V1·D11·W1 and U22 = V2·D22·W2; the block's middle
// layer receives per-crossing amplitudes with D11/D22 on the diagonal and
// diag(V1ᴴ·U12·W2ᴴ) / diag(V2ᴴ·U21·W1ᴴ) off it (diagonal by unitarity of u
// and the shared SVD bases). W1 and W2 recurse into the layers before the
// middle, V1 and V2 into the layers after it, each on half the crossings.
// Base case: a 2x2 block is itself the crossing's target.
//
// Unitarity of u is assumed, not verified; non-unitary input degrades the
// factorization silently. ctx cancels branches that have not started when
// parallel is set; the sequential path ignores it between branches.
//
// Complexity: O(n^3) work across O(log n) recursion depth; the four
// branches at each level write disjoint arena ranges and run concurrently
// when parallel is set and the block is at least parallelCutoff wide.
func Decompose(ctx context.Context, u *cmat.Dense, parallel bool) (*Amplitudes, error) {
	rows, cols := u.Dims()
	if rows != cols {
		return nil, bflyErrorf("Decompose", ErrShapeMismatch, "%dx%d target, want square", rows, cols)
	}
	if rows < 2 || rows&(rows-1) != 0 {
		return nil, bflyErrorf("Decompose", ErrSizeNotPowerOfTwo, "got %d", rows)
	}
	amps := NewAmplitudes(rows-1, rows/2)
	if err := decomposeBlock(ctx, u, amps, 0, 0, parallel); err != nil {
		return nil, err
	}

	return amps, nil
}

// branch is one recursive sub-problem: a quadrant factor and the arena
// offsets its layers and crossings start at.
type branch struct {
	m        *cmat.Dense
	layerOff int
	crossOff int
}

// decomposeBlock factors one n x n block of the target into the arena
// range starting at (layerOff, crossOff), spanning n-1 layers and n/2
// crossings.
func decomposeBlock(ctx context.Context, u *cmat.Dense, amps *Amplitudes, layerOff, crossOff int, parallel bool) error {
	n := u.Rows()
	if n == 2 {
		amps.Set(layerOff, crossOff, 0, 0, u.At(0, 0))
		amps.Set(layerOff, crossOff, 0, 1, u.At(0, 1))
		amps.Set(layerOff, crossOff, 1, 0, u.At(1, 0))
		amps.Set(layerOff, crossOff, 1, 1, u.At(1, 1))

		return nil
	}

	h := n / 2
	u11, _ := u.Block(0, 0, h, h)
	u12, _ := u.Block(0, h, h, n)
	u21, _ := u.Block(h, 0, n, h)
	u22, _ := u.Block(h, h, n, n)

	v1, d11, w1, err := cmat.SVD(u11)
	if err != nil {
		return fmt.Errorf("butterfly: block at layer %d: %w", layerOff, err)
	}
	v2, d22, w2, err := cmat.SVD(u22)
	if err != nil {
		return fmt.Errorf("butterfly: block at layer %d: %w", layerOff, err)
	}

	off01, err := rotatedDiagonal(v1, u12, w2)
	if err != nil {
		return err
	}
	off10, err := rotatedDiagonal(v2, u21, w1)
	if err != nil {
		return err
	}

	// The block's outermost unresolved layer sits in its middle.
	mid := layerOff + h - 1
	for j := 0; j < h; j++ {
		amps.Set(mid, crossOff+j, 0, 0, complex(d11[j], 0))
		amps.Set(mid, crossOff+j, 0, 1, off01[j])
		amps.Set(mid, crossOff+j, 1, 0, off10[j])
		amps.Set(mid, crossOff+j, 1, 1, complex(d22[j], 0))
	}

	branches := [4]branch{
		{w1, layerOff, crossOff},
		{w2, layerOff, crossOff + h/2},
		{v1, layerOff + h, crossOff},
		{v2, layerOff + h, crossOff + h/2},
	}
	if parallel && n >= parallelCutoff {
		g, gctx := errgroup.WithContext(ctx)
		for _, b := range branches {
			b := b
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return fmt.Errorf("butterfly: block at layer %d: %w", b.layerOff, err)
				}

				return decomposeBlock(gctx, b.m, amps, b.layerOff, b.crossOff, parallel)
			})
		}

		return g.Wait()
	}
	for _, b := range branches {
		if err := decomposeBlock(ctx, b.m, amps, b.layerOff, b.crossOff, parallel); err != nil {
			return err
		}
	}

	return nil
}

// rotatedDiagonal returns diag(vᴴ·m·wᴴ), the off-diagonal crossing
// amplitudes of one quadrant in the bases chosen by the neighboring SVDs.
func rotatedDiagonal(v, m, w *cmat.Dense) ([]complex128, error) {
	vm, err := cmat.Mul(v.Hermitian(), m)
	if err != nil {
		return nil, err
	}
	vmw, err := cmat.Mul(vm, w.Hermitian())
	if err != nil {
		return nil, err
	}

	return cmat.Diag(vmw), nil
}
