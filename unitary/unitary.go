// Package unitary supplies the unitary-matrix workbench used to exercise
// mesh configurations: Haar-distributed random unitaries, the discrete
// Fourier transform matrix, and closeness metrics.
//
// All sampling is deterministic under an explicit seed, so test and
// benchmark runs reproduce bit-for-bit across platforms.
//
// Errors:
//
//	ErrBadSize - requested matrix size is not positive.
package unitary

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/photonq/meshes/cmat"
)

// ErrBadSize reports a non-positive matrix size.
var ErrBadSize = errors.New("unitary: size must be positive")

// DFT returns the unitary n x n discrete Fourier transform matrix,
// F[f,t] = e^{-2*pi*i*f*t/n} / sqrt(n). Columns are built from the FFT of
// the standard basis impulses.
// Complexity: O(n^2 log n).
func DFT(n int) (*cmat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("unitary.DFT: got %d: %w", n, ErrBadSize)
	}
	m, err := cmat.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	fft := fourier.NewCmplxFFT(n)
	impulse := make([]complex128, n)
	scale := complex(1/math.Sqrt(float64(n)), 0)
	for t := 0; t < n; t++ {
		impulse[t] = 1
		col := fft.Coefficients(nil, impulse)
		for f := 0; f < n; f++ {
			m.Set(f, t, col[f]*scale)
		}
		impulse[t] = 0
	}

	return m, nil
}

// IsUnitary reports whether m is square and mᴴ·m deviates from the
// identity by at most tol in Frobenius norm per mode (the defect is scaled
// by 1/sqrt(n) so tol is size-independent).
// Complexity: O(n^3).
func IsUnitary(m *cmat.Dense, tol float64) bool {
	rows, cols := m.Dims()
	if rows != cols {
		return false
	}
	prod, err := cmat.Mul(m.Hermitian(), m)
	if err != nil {
		return false
	}
	diff, err := cmat.Sub(prod, cmat.Identity(rows))
	if err != nil {
		return false
	}

	return cmat.FrobNorm(diff)/math.Sqrt(float64(rows)) <= tol
}

// Distance returns the relative Frobenius distance ||a-b|| / ||b||, the
// reconstruction-error metric of the end-to-end properties. A zero b gives
// the absolute norm of a.
// Complexity: O(n^2).
func Distance(a, b *cmat.Dense) float64 {
	diff, err := cmat.Sub(a, b)
	if err != nil {
		return math.Inf(1)
	}
	d := cmat.FrobNorm(diff)
	if ref := cmat.FrobNorm(b); ref > 0 {
		d /= ref
	}

	return d
}
