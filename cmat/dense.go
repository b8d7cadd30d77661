// Package cmat provides dense complex-valued matrices and the few
// linear-algebra kernels needed to configure photonic mesh networks.
// Dense is a concrete, row-major container storing complex128 elements
// in a flat slice for performance and cache friendliness.
//
// Element accessors (At, Set, Row) are deliberately unchecked beyond the
// runtime's own slice bounds checks: they sit on the hot path of the
// decomposition kernels. Shape-changing operations validate their inputs
// and return sentinel errors.
//
// Errors:
//
//	ErrInvalidDimensions - requested matrix dimensions are non-positive.
//	ErrIndexOutOfBounds  - a block range lies outside the matrix.
//	ErrShapeMismatch     - operand shapes are incompatible.
//	ErrNotSquare         - a square matrix was required.
//	ErrNoConvergence     - the SVD sweep cap was exhausted.
package cmat

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// Sentinel errors for cmat operations.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("cmat: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a block range is outside the valid index range.
	ErrIndexOutOfBounds = errors.New("cmat: index out of bounds")

	// ErrShapeMismatch indicates that operand shapes are incompatible.
	ErrShapeMismatch = errors.New("cmat: operand shapes do not match")

	// ErrNotSquare indicates that a square matrix was required.
	ErrNotSquare = errors.New("cmat: matrix must be square")

	// ErrNoConvergence indicates that SVD exhausted its sweep budget.
	ErrNoConvergence = errors.New("cmat: svd did not converge")
)

// opErrorf wraps an underlying error with method context.
func opErrorf(method string, err error) error {
	return fmt.Errorf("cmat.%s: %w", method, err)
}

// Dense is a row-major matrix of complex128 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int          // number of rows and columns
	data []complex128 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols > 0.
// Stage 2 (Prepare): allocate flat backing slice.
// Stage 3 (Finalize): return new Dense or ErrInvalidDimensions.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	// Validate dimensions
	if rows <= 0 || cols <= 0 {
		return nil, opErrorf("NewDense", ErrInvalidDimensions)
	}

	// Return initialized Dense over a zeroed flat slice
	return &Dense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// FromRows builds a Dense from a rectangular slice of rows.
// Stage 1 (Validate): non-empty input, uniform row lengths.
// Stage 2 (Execute): copy rows into flat storage.
// Complexity: O(r*c).
func FromRows(rows [][]complex128) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, opErrorf("FromRows", ErrInvalidDimensions)
	}
	c := len(rows[0])
	m := &Dense{r: len(rows), c: c, data: make([]complex128, len(rows)*c)}
	for i, row := range rows {
		if len(row) != c {
			return nil, opErrorf("FromRows", ErrShapeMismatch)
		}
		copy(m.data[i*c:(i+1)*c], row)
	}

	return m, nil
}

// Identity returns the n×n identity matrix. n must be positive.
// Complexity: O(n^2).
func Identity(n int) *Dense {
	m := &Dense{r: n, c: n, data: make([]complex128, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m
}

// Rows returns the number of rows in the matrix.
// Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
// Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Dims returns (rows, cols).
// Complexity: O(1).
func (m *Dense) Dims() (int, int) { return m.r, m.c }

// At returns the element at (row, col). Unchecked: out-of-range indices
// panic via the runtime bounds check.
// Complexity: O(1).
func (m *Dense) At(row, col int) complex128 { return m.data[row*m.c+col] }

// Set assigns v at (row, col). Unchecked, like At.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v complex128) { m.data[row*m.c+col] = v }

// Row returns the backing slice of row i. Mutations write through.
// Complexity: O(1).
func (m *Dense) Row(i int) []complex128 { return m.data[i*m.c : (i+1)*m.c] }

// Clone returns a deep copy of the matrix.
// Complexity: O(r*c) time and memory.
func (m *Dense) Clone() *Dense {
	data := make([]complex128, len(m.data))
	copy(data, m.data)

	return &Dense{r: m.r, c: m.c, data: data}
}

// Scale multiplies every element by z in place and returns the receiver.
// Complexity: O(r*c).
func (m *Dense) Scale(z complex128) *Dense {
	cmplxs.Scale(z, m.data)

	return m
}

// Conj returns a new matrix with every element conjugated (no transpose).
// Complexity: O(r*c).
func (m *Dense) Conj() *Dense {
	out := m.Clone()
	for i, v := range out.data {
		out.data[i] = cmplx.Conj(v)
	}

	return out
}

// Hermitian returns the conjugate transpose as a new matrix.
// Complexity: O(r*c).
func (m *Dense) Hermitian() *Dense {
	out := &Dense{r: m.c, c: m.r, data: make([]complex128, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*out.c+i] = cmplx.Conj(m.data[i*m.c+j])
		}
	}

	return out
}

// Mul returns the matrix product a·b.
// Stage 1 (Validate): inner dimensions must agree.
// Stage 2 (Execute): ikj loop with row-slice accumulation.
// Complexity: O(r_a * c_a * c_b).
func Mul(a, b *Dense) (*Dense, error) {
	if a.c != b.r {
		return nil, fmt.Errorf("cmat.Mul: (%dx%d)·(%dx%d): %w", a.r, a.c, b.r, b.c, ErrShapeMismatch)
	}
	out := &Dense{r: a.r, c: b.c, data: make([]complex128, a.r*b.c)}
	for i := 0; i < a.r; i++ {
		dst := out.Row(i)
		for k := 0; k < a.c; k++ {
			if aik := a.data[i*a.c+k]; aik != 0 {
				cmplxs.AddScaled(dst, aik, b.Row(k))
			}
		}
	}

	return out, nil
}

// Sub returns the matrix difference a−b.
// Stage 1 (Validate): shapes must agree.
// Stage 2 (Execute): elementwise subtraction into a fresh matrix.
// Complexity: O(r*c).
func Sub(a, b *Dense) (*Dense, error) {
	if a.r != b.r || a.c != b.c {
		return nil, fmt.Errorf("cmat.Sub: (%dx%d)-(%dx%d): %w", a.r, a.c, b.r, b.c, ErrShapeMismatch)
	}
	out := &Dense{r: a.r, c: a.c, data: make([]complex128, len(a.data))}
	copy(out.data, a.data)
	cmplxs.Sub(out.data, b.data)

	return out, nil
}

// Block copies the half-open sub-matrix [r0,r1)×[c0,c1) into a new Dense.
// Stage 1 (Validate): range must be non-empty and inside the matrix.
// Stage 2 (Execute): row-wise copy.
// Complexity: O((r1-r0)*(c1-c0)).
func (m *Dense) Block(r0, c0, r1, c1 int) (*Dense, error) {
	if r0 < 0 || c0 < 0 || r1 > m.r || c1 > m.c || r0 >= r1 || c0 >= c1 {
		return nil, opErrorf("Block", ErrIndexOutOfBounds)
	}
	out := &Dense{r: r1 - r0, c: c1 - c0, data: make([]complex128, (r1-r0)*(c1-c0))}
	for i := r0; i < r1; i++ {
		copy(out.Row(i-r0), m.data[i*m.c+c0:i*m.c+c1])
	}

	return out, nil
}

// SetBlock writes src into the receiver with its top-left corner at (r0, c0).
// Complexity: O(r_src * c_src).
func (m *Dense) SetBlock(r0, c0 int, src *Dense) error {
	if r0 < 0 || c0 < 0 || r0+src.r > m.r || c0+src.c > m.c {
		return opErrorf("SetBlock", ErrIndexOutOfBounds)
	}
	for i := 0; i < src.r; i++ {
		copy(m.data[(r0+i)*m.c+c0:(r0+i)*m.c+c0+src.c], src.Row(i))
	}

	return nil
}

// Diag returns a copy of the main diagonal, length min(r, c).
// Complexity: O(min(r,c)).
func Diag(m *Dense) []complex128 {
	n := m.r
	if m.c < n {
		n = m.c
	}
	d := make([]complex128, n)
	for i := 0; i < n; i++ {
		d[i] = m.data[i*m.c+i]
	}

	return d
}

// FrobNorm returns the Frobenius norm of m.
// Complexity: O(r*c).
func FrobNorm(m *Dense) float64 {
	return cmplxs.Norm(m.data, 2)
}

// Equal reports whether m and b share a shape and agree elementwise within
// tol in modulus.
// Complexity: O(r*c).
func (m *Dense) Equal(b *Dense, tol float64) bool {
	if m.r != b.r || m.c != b.c {
		return false
	}
	for i, v := range m.data {
		if cmplx.Abs(v-b.data[i]) > tol {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(r*c) for string construction.
func (m *Dense) String() string {
	var s string
	for i := 0; i < m.r; i++ {
		s += "["
		for j := 0; j < m.c; j++ {
			s += fmt.Sprintf("%g", m.data[i*m.c+j])
			if j < m.c-1 {
				s += ", "
			}
		}
		s += "]\n"
	}

	return s
}
