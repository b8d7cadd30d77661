package unitary

import (
	"fmt"
	"math"
	"math/cmplx"

	"golang.org/x/exp/rand"

	"github.com/photonq/meshes/cmat"
)

// defaultSeed is the fixed "zero" seed used when callers pass seed==0.
// Arbitrary but stable, so zero-seed callers stay reproducible.
const defaultSeed uint64 = 1

// rngFromSeed returns a deterministic generator over a PCG source.
// Policy: seed==0 selects defaultSeed; any other seed is used verbatim.
func rngFromSeed(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Haar samples an n x n unitary from the Haar (uniform) measure.
//
// Stage 1 (Sample): fill a complex Ginibre matrix with iid standard
// normals in both components.
// Stage 2 (Orthonormalize): modified Gram-Schmidt over the columns. The
// implicit R factor has positive diagonal, which is exactly the phase
// convention under which the Q factor of a Ginibre sample is
// Haar-distributed.
//
// The same (n, seed) pair always yields the same matrix.
// Complexity: O(n^3).
func Haar(n int, seed uint64) (*cmat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("unitary.Haar: got %d: %w", n, ErrBadSize)
	}
	rng := rngFromSeed(seed)
	m, err := cmat.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
	}
	orthonormalize(m)

	return m, nil
}

// orthonormalize runs modified Gram-Schmidt over the columns of m in
// place. A Ginibre sample is almost surely full-rank, so the column norms
// never vanish.
func orthonormalize(m *cmat.Dense) {
	n := m.Rows()
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			// proj = <q_k, a_j>
			var proj complex128
			for i := 0; i < n; i++ {
				proj += cmplx.Conj(m.At(i, k)) * m.At(i, j)
			}
			for i := 0; i < n; i++ {
				m.Set(i, j, m.At(i, j)-proj*m.At(i, k))
			}
		}
		var nrm float64
		for i := 0; i < n; i++ {
			nrm += real(m.At(i, j))*real(m.At(i, j)) + imag(m.At(i, j))*imag(m.At(i, j))
		}
		scale := complex(1/math.Sqrt(nrm), 0)
		for i := 0; i < n; i++ {
			m.Set(i, j, m.At(i, j)*scale)
		}
	}
}
