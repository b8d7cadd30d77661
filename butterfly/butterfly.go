package butterfly

import (
	"context"
	"math"

	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/crossing"
	"github.com/photonq/meshes/mesh"
)

// unitaryTol bounds the per-mode Frobenius defect ||UᴴU - I|| / sqrt(N)
// accepted by the construction-time unitarity gate. Loose enough for
// targets assembled in double precision, tight enough to catch anything
// that would visibly degrade the factorization.
const unitaryTol = 1e-10

// New builds a butterfly mesh from cfg.
//
// Stage 1 (Validate): exactly one of Size and Target, power-of-two size,
// a crossing device supporting SolveRow0, shape-checked splitter and bias
// arrays, and - unless skipped - a unitary target. All checks run before
// any decomposition work.
// Stage 2 (Assemble): generate the topology and add one mesh layer per
// butterfly layer, copying the splitter imperfections in.
// Stage 3 (Configure): when a target is present, decompose it and solve
// the phases; the mesh then realizes the target. Without a target the mesh
// comes back zero-parameterized, carrying only the bias on its screen.
//
// The returned network is fully configured; reconfiguration means building
// a new one.
func New(cfg Config) (*mesh.Network, error) {
	if (cfg.Size != 0) == (cfg.Target != nil) {
		return nil, bflyErrorf("New", ErrSizeAndMatrix, "size=%d target=%v", cfg.Size, cfg.Target != nil)
	}
	n := cfg.Size
	if cfg.Target != nil {
		rows, cols := cfg.Target.Dims()
		if rows != cols {
			return nil, bflyErrorf("New", ErrShapeMismatch, "%dx%d target, want square", rows, cols)
		}
		n = rows
	}
	if n < 2 || n&(n-1) != 0 {
		return nil, bflyErrorf("New", ErrSizeNotPowerOfTwo, "got %d", n)
	}

	dev := cfg.Crossing
	if dev == nil {
		dev = crossing.MZI{}
	}
	if !dev.Supports(crossing.SolveRow0) {
		return nil, bflyErrorf("New", ErrUnsupportedCrossing, "%T lacks %s", dev, crossing.SolveRow0)
	}
	if cfg.PhiBias != nil && len(cfg.PhiBias) != n {
		return nil, bflyErrorf("New", ErrShapeMismatch, "bias length %d, want %d", len(cfg.PhiBias), n)
	}
	if err := checkSplitterShape(cfg.Splitter, n, dev.NSplitter()); err != nil {
		return nil, err
	}
	if cfg.Target != nil && !cfg.SkipUnitaryCheck {
		if defect, ok := unitaryDefect(cfg.Target); !ok {
			return nil, bflyErrorf("New", ErrNotUnitary, "defect %.3g exceeds %.3g", defect, unitaryTol)
		}
	}

	topo, err := NewTopology(n)
	if err != nil {
		return nil, err
	}
	net, err := mesh.New(n, dev)
	if err != nil {
		return nil, err
	}
	for i, lt := range topo.Layers {
		ly, err := net.AddLayer(lt.Stride, lt.Gather, lt.Scatter)
		if err != nil {
			return nil, err
		}
		if cfg.Splitter != nil {
			for j := range ly.Splitter {
				copy(ly.Splitter[j], cfg.Splitter[i][j])
			}
		}
	}

	if cfg.Target == nil {
		if cfg.PhiBias != nil {
			if err := net.SetOutputPhase(cfg.PhiBias); err != nil {
				return nil, err
			}
		}

		return net, nil
	}

	amps, err := Decompose(context.Background(), cfg.Target, cfg.Parallel)
	if err != nil {
		return nil, err
	}
	if err := SolvePhases(topo, amps, net, cfg.PhiBias); err != nil {
		return nil, err
	}

	return net, nil
}

// checkSplitterShape validates a (layers) x (crossings) x (nsplitter)
// imperfection array against the mesh geometry. Nil is ideal devices.
func checkSplitterShape(sp [][][]float64, n, width int) error {
	if sp == nil {
		return nil
	}
	if len(sp) != n-1 {
		return bflyErrorf("New", ErrShapeMismatch, "splitter has %d layers, want %d", len(sp), n-1)
	}
	for i, layer := range sp {
		if len(layer) != n/2 {
			return bflyErrorf("New", ErrShapeMismatch, "splitter layer %d has %d rows, want %d", i, len(layer), n/2)
		}
		for j, row := range layer {
			if len(row) != width {
				return bflyErrorf("New", ErrShapeMismatch, "splitter row (%d,%d) has %d entries, want %d", i, j, len(row), width)
			}
		}
	}

	return nil
}

// unitaryDefect measures ||UᴴU - I||_F / sqrt(N) and reports whether it
// passes the unitarity gate.
func unitaryDefect(u *cmat.Dense) (float64, bool) {
	prod, err := cmat.Mul(u.Hermitian(), u)
	if err != nil {
		return math.Inf(1), false
	}
	diff, err := cmat.Sub(prod, cmat.Identity(u.Rows()))
	if err != nil {
		return math.Inf(1), false
	}
	defect := cmat.FrobNorm(diff) / math.Sqrt(float64(u.Rows()))

	return defect, defect <= unitaryTol
}
