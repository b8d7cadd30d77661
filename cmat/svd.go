package cmat

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/cmplxs"
)

const (
	// svdMaxSweeps caps the number of full column-pair sweeps. One-sided
	// Jacobi converges in a handful of sweeps for the well-conditioned
	// sub-unitary blocks this package factors; the cap only guards
	// pathological input.
	svdMaxSweeps = 64

	// svdOffTol is the relative threshold below which a column pair counts
	// as orthogonal and no rotation is applied.
	svdOffTol = 1e-15

	// svdZeroTol is the absolute singular-value threshold below which a
	// column is treated as null and its left singular vector is completed
	// from the standard basis.
	svdZeroTol = 1e-13
)

// SVD factors the square matrix a as a = u · diag(s) · vh, with u and vh
// unitary and s sorted in descending order. The third factor is returned
// already conjugate-transposed.
//
// Stage 1 (Validate): a must be square.
// Stage 2 (Sweep): one-sided Jacobi; rotate column pairs of a working copy
// until all pairs are orthogonal, accumulating the right factor.
// Stage 3 (Extract): column norms become s; columns are sorted, normalized
// into u, and null columns are completed to an orthonormal basis, so that
// SVD of a zero matrix yields (I, 0, I).
//
// Returns ErrNotSquare for rectangular input and ErrNoConvergence if the
// sweep budget is exhausted (unreachable for blocks of unitary matrices).
// Complexity: O(n^3) per sweep, O(n^2) extra memory.
func SVD(a *Dense) (u *Dense, s []float64, vh *Dense, err error) {
	if a.r != a.c {
		return nil, nil, nil, fmt.Errorf("cmat.SVD: %dx%d: %w", a.r, a.c, ErrNotSquare)
	}
	n := a.r
	// Columns of w converge to u·diag(s); v accumulates the right rotations,
	// so a = w·vᴴ holds throughout the sweeps.
	w := a.Clone()
	v := Identity(n)

	converged := false
	for sweep := 0; sweep < svdMaxSweeps; sweep++ {
		if !jacobiSweep(w, v, n) {
			converged = true
			break
		}
	}
	if !converged {
		return nil, nil, nil, fmt.Errorf("cmat.SVD: %d sweeps: %w", svdMaxSweeps, ErrNoConvergence)
	}

	u, s, vh = extractFactors(w, v, n)

	return u, s, vh, nil
}

// jacobiSweep runs one full pass over all column pairs (p, q) of w,
// orthogonalizing each pair with a complex Jacobi rotation applied to both
// w and v. Reports whether any rotation was applied.
func jacobiSweep(w, v *Dense, n int) bool {
	rotated := false
	for p := 0; p < n-1; p++ {
		for q := p + 1; q < n; q++ {
			// Hermitian 2x2 Gram block of columns p and q.
			var app, aqq float64
			var apq complex128
			for i := 0; i < n; i++ {
				wp, wq := w.data[i*n+p], w.data[i*n+q]
				app += real(wp)*real(wp) + imag(wp)*imag(wp)
				aqq += real(wq)*real(wq) + imag(wq)*imag(wq)
				apq += cmplx.Conj(wp) * wq
			}
			mag := cmplx.Abs(apq)
			if mag == 0 || mag <= svdOffTol*math.Sqrt(app*aqq) {
				continue
			}
			rotated = true

			// De-phase the off-diagonal, then solve the real 2x2 rotation:
			// t is the smaller root of t^2 + 2·zeta·t - 1 = 0.
			ph := apq / complex(mag, 0)
			zeta := (aqq - app) / (2 * mag)
			t := math.Copysign(1, zeta) / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
			cs := complex(1/math.Sqrt(1+t*t), 0)
			sn := complex(t, 0) * cs

			// Column update by J = diag(1, conj(ph)) · [[cs, sn], [-sn, cs]]:
			//   col_p <- cs·col_p - conj(ph)·sn·col_q
			//   col_q <- sn·col_p + conj(ph)·cs·col_q
			cph := cmplx.Conj(ph)
			rotateColumns(w, n, p, q, cs, sn, cph)
			rotateColumns(v, n, p, q, cs, sn, cph)
		}
	}

	return rotated
}

// rotateColumns applies the 2x2 unitary J (parameterized by cs, sn and the
// de-phasing factor cph) to columns p and q of m.
func rotateColumns(m *Dense, n, p, q int, cs, sn, cph complex128) {
	for i := 0; i < n; i++ {
		mp, mq := m.data[i*n+p], m.data[i*n+q]
		m.data[i*n+p] = cs*mp - cph*sn*mq
		m.data[i*n+q] = sn*mp + cph*cs*mq
	}
}

// extractFactors turns the orthogonalized w and accumulated v into the
// final (u, s, vh) triple: sort by column norm, normalize, complete nulls.
func extractFactors(w, v *Dense, n int) (*Dense, []float64, *Dense) {
	norms := make([]float64, n)
	col := make([]complex128, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = w.data[i*n+j]
		}
		norms[j] = cmplxs.Norm(col, 2)
	}

	// Descending, stable: ties keep their sweep order so that an input that
	// is already diagonal (e.g. the identity) passes through unchanged.
	idx := make([]int, n)
	for j := range idx {
		idx[j] = j
	}
	sort.SliceStable(idx, func(a, b int) bool { return norms[idx[a]] > norms[idx[b]] })

	u := &Dense{r: n, c: n, data: make([]complex128, n*n)}
	vs := &Dense{r: n, c: n, data: make([]complex128, n*n)}
	s := make([]float64, n)
	done := make([]bool, n)
	for j, src := range idx {
		s[j] = norms[src]
		for i := 0; i < n; i++ {
			vs.data[i*n+j] = v.data[i*n+src]
		}
		if s[j] > svdZeroTol {
			inv := complex(1/s[j], 0)
			for i := 0; i < n; i++ {
				u.data[i*n+j] = w.data[i*n+src] * inv
			}
			done[j] = true
		}
	}
	for j := 0; j < n; j++ {
		if !done[j] {
			completeColumn(u, j, done)
		}
	}

	return u, s, vs.Hermitian()
}

// completeColumn fills u's column j with a unit vector orthogonal to every
// finished column. The candidate standard-basis vector with the largest
// residual after projection is used, which is always bounded away from zero
// when fewer than n columns are finished.
// Complexity: O(n^3) in the worst (all-null) case.
func completeColumn(u *Dense, j int, done []bool) {
	n := u.r
	vec := make([]complex128, n)
	best := make([]complex128, n)
	var bestNorm float64
	for k := 0; k < n; k++ {
		for i := range vec {
			vec[i] = 0
		}
		vec[k] = 1
		for m := 0; m < n; m++ {
			if !done[m] {
				continue
			}
			// proj = <u_m, e_k> = conj(u[k,m])
			proj := cmplx.Conj(u.data[k*n+m])
			if proj == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				vec[i] -= proj * u.data[i*n+m]
			}
		}
		if nrm := cmplxs.Norm(vec, 2); nrm > bestNorm {
			bestNorm = nrm
			copy(best, vec)
		}
	}
	cmplxs.Scale(complex(1/bestNorm, 0), best)
	for i := 0; i < n; i++ {
		u.data[i*n+j] = best[i]
	}
	done[j] = true
}
