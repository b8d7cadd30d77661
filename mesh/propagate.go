package mesh

import (
	"context"
	"fmt"
	"math/cmplx"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/crossing"
)

// Apply propagates one field vector through every layer and the output
// phase screen.
//
// Stage 1 (Validate): x must have one amplitude per mode.
// Stage 2 (Evaluate): compute every crossing's transfer matrix once.
// Stage 3 (Propagate): gather, couple, scatter per layer, then apply the
// output screen.
//
// The input slice is not mutated; the result is a fresh slice.
// Complexity: O(depth · modes) time, O(modes) extra memory.
func (n *Network) Apply(x []complex128) ([]complex128, error) {
	if len(x) != n.modes {
		return nil, meshErrorf("Apply", ErrShapeMismatch, "got %d amplitudes, want %d", len(x), n.modes)
	}
	mats, err := n.layerTransfers()
	if err != nil {
		return nil, err
	}

	out := make([]complex128, n.modes)
	copy(out, x)
	n.propagate(mats, out, make([]complex128, n.modes))

	return out, nil
}

// ApplyBatch propagates every column of x through the network. Columns are
// independent fields, so they fan out over an errgroup bounded by
// GOMAXPROCS; ctx cancels columns that have not started yet.
//
// Crossing transfer matrices are evaluated once and shared read-only by all
// columns.
// Complexity: O(depth · modes · cols) work, O(modes) memory per worker.
func (n *Network) ApplyBatch(ctx context.Context, x *cmat.Dense) (*cmat.Dense, error) {
	if x.Rows() != n.modes {
		return nil, meshErrorf("ApplyBatch", ErrShapeMismatch, "got %d rows, want %d", x.Rows(), n.modes)
	}
	mats, err := n.layerTransfers()
	if err != nil {
		return nil, err
	}
	out, err := cmat.NewDense(x.Rows(), x.Cols())
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := 0; c < x.Cols(); c++ {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("mesh.ApplyBatch: column %d: %w", c, err)
			}
			buf := make([]complex128, n.modes)
			tmp := make([]complex128, n.modes)
			for m := 0; m < n.modes; m++ {
				buf[m] = x.At(m, c)
			}
			n.propagate(mats, buf, tmp)
			for m := 0; m < n.modes; m++ {
				out.Set(m, c, buf[m])
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Transfer reconstructs the full modes×modes transfer matrix by propagating
// the identity basis through the network.
// Complexity: O(depth · modes²).
func (n *Network) Transfer(ctx context.Context) (*cmat.Dense, error) {
	return n.ApplyBatch(ctx, cmat.Identity(n.modes))
}

// layerTransfers evaluates every crossing's transfer matrix so propagation
// does not recompute them per column.
func (n *Network) layerTransfers() ([][]crossing.Matrix2, error) {
	mats := make([][]crossing.Matrix2, len(n.layers))
	for i, ly := range n.layers {
		row := make([]crossing.Matrix2, ly.Count)
		for j := 0; j < ly.Count; j++ {
			t, err := n.dev.Transfer(ly.Phase[j], ly.Splitter[j])
			if err != nil {
				return nil, fmt.Errorf("mesh: layer %d crossing %d: %w", i, j, err)
			}
			row[j] = t
		}
		mats[i] = row
	}

	return mats, nil
}

// propagate pushes one field through the precomputed layer transfers and
// the output phase screen, in place over buf. tmp is scratch of equal
// length; after every layer buf holds the field in physical mode order.
func (n *Network) propagate(mats [][]crossing.Matrix2, buf, tmp []complex128) {
	for i, ly := range n.layers {
		// Stage 1 (Gather): route physical modes onto crossing ports.
		if ly.In == nil {
			copy(tmp, buf)
		} else {
			for k, m := range ly.In {
				tmp[k] = buf[m]
			}
		}
		// Stage 2 (Couple): apply the 2x2 crossings inside the window;
		// ports outside [Offset, Offset+2·Count) pass through untouched.
		for j, t := range mats[i] {
			a := ly.Offset + 2*j
			tmp[a], tmp[a+1] = t.Apply(tmp[a], tmp[a+1])
		}
		// Stage 3 (Scatter): route ports back to physical modes.
		if ly.Out == nil {
			copy(buf, tmp)
		} else {
			for m, k := range ly.Out {
				buf[m] = tmp[k]
			}
		}
	}
	for m, phi := range n.outPhase {
		buf[m] *= cmplx.Rect(1, phi)
	}
}
