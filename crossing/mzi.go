package crossing

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DefaultSolveTol is the band tolerance used by MZI.Solve when Tol is zero:
// splitting ratios this far outside the reachable range are clamped rather
// than rejected, absorbing accumulated round-off from upstream
// decompositions.
const DefaultSolveTol = 1e-9

// MZI is the Mach-Zehnder interferometer crossing: a phase shifter phi on
// input port 0 followed by two imperfect 50:50 couplers enclosing an
// internal arm imbalance theta.
//
// Phase parameters: [theta, phi]. theta in [0, pi] spans cross (theta=0)
// through bar (theta=pi). Splitter imperfections: [alpha, beta], the angle
// errors of the two couplers; both zero for an ideal device.
//
// Forward map:
//
//	T = e^{i·theta/2} · | e^{i·phi}·(i·S·Cm - C·Sp)   i·C·Cp - S·Sm |
//	                    | e^{i·phi}·(i·C·Cp + S·Sm)  -i·S·Cm - C·Sp |
//
// with S=sin(theta/2), C=cos(theta/2), Cp=cos(alpha+beta), Cm=cos(alpha-beta),
// Sp=sin(alpha+beta), Sm=sin(alpha-beta). T is unitary for all parameters.
type MZI struct {
	// Tol bounds how far a requested splitting ratio may fall outside the
	// reachable band before Solve reports ErrUnreachableTarget; ratios
	// inside the tolerance are clamped. Zero selects DefaultSolveTol.
	Tol float64
}

var _ Crossing = MZI{}

// NPhase returns 2: theta and phi.
func (MZI) NPhase() int { return 2 }

// NSplitter returns 2: alpha and beta.
func (MZI) NSplitter() int { return 2 }

// Supports reports the implemented solve modes: SolveRow0 and SolveT00.
func (MZI) Supports(mode SolveMode) bool {
	return mode == SolveRow0 || mode == SolveT00
}

// Transfer computes the MZI transfer matrix.
// Complexity: O(1).
func (MZI) Transfer(phase, splitter []float64) (Matrix2, error) {
	if len(phase) != 2 {
		return Matrix2{}, fmt.Errorf("crossing.MZI.Transfer: got %d phase parameters, want 2: %w", len(phase), ErrBadParams)
	}
	alpha, beta, err := splitterPair("Transfer", splitter)
	if err != nil {
		return Matrix2{}, err
	}

	return mziTransfer(phase[0], phase[1], alpha, beta), nil
}

// Solve inverts the forward map for the selected mode.
//
// Stage 1 (Ratio): reduce the target to a splitting ratio r.
// Stage 2 (Theta): sin²(theta/2) = (r - sin²(alpha+beta)) / (cos 2alpha · cos 2beta),
// clamped within Tol; outside the tolerance the target is unreachable.
// Stage 3 (Phi): phase of the target against the phi-free model amplitudes,
// anchored on whichever entries are nonzero (bar and cross states leave one
// entry, and with it phi, unconstrained).
//
// Returns [theta, phi]. Complexity: O(1).
func (x MZI) Solve(target [2]complex128, mode SolveMode, splitter []float64) ([]float64, error) {
	if !x.Supports(mode) {
		return nil, fmt.Errorf("crossing.MZI.Solve: %s: %w", mode, ErrUnsupportedMode)
	}
	alpha, beta, err := splitterPair("Solve", splitter)
	if err != nil {
		return nil, err
	}
	tol := x.Tol
	if tol == 0 {
		tol = DefaultSolveTol
	}

	t0, t1 := target[0], target[1]
	a0 := real(t0)*real(t0) + imag(t0)*imag(t0)
	a1 := real(t1)*real(t1) + imag(t1)*imag(t1)

	// Stage 1: splitting ratio. SolveRow0 normalizes by the row power, so
	// targets need not arrive normalized; SolveT00 is absolute.
	var r float64
	switch mode {
	case SolveRow0:
		if a0+a1 == 0 {
			return nil, fmt.Errorf("crossing.MZI.Solve: zero target row: %w", ErrUnreachableTarget)
		}
		r = a0 / (a0 + a1)
	case SolveT00:
		r = a0
	}

	// Stage 2: coupling angle.
	theta, err := x.solveTheta(r, alpha, beta, tol)
	if err != nil {
		return nil, err
	}

	// Stage 3: relative phase against the phi-free model entries.
	s, c := math.Sincos(theta / 2)
	sp, cp := math.Sincos(alpha + beta)
	sm, cm := math.Sincos(alpha - beta)
	am := complex(-c*sp, s*cm) // i·S·Cm - C·Sp
	bm := complex(-s*sm, c*cp) // i·C·Cp - S·Sm

	var phi float64
	switch mode {
	case SolveRow0:
		z1 := t0 * cmplx.Conj(am)
		z2 := t1 * cmplx.Conj(bm)
		switch {
		case z1 != 0 && z2 != 0:
			phi = cmplx.Phase(z1 * cmplx.Conj(z2))
		case z1 != 0:
			phi = cmplx.Phase(z1)
		}
	case SolveT00:
		if z := t0 * cmplx.Conj(am); z != 0 {
			phi = cmplx.Phase(z) - theta/2
		}
	}

	return []float64{theta, phi}, nil
}

// solveTheta converts a splitting ratio into the coupling angle, honoring
// the reachable band [sin²(alpha+beta), cos²(alpha-beta)].
func (MZI) solveTheta(r, alpha, beta, tol float64) (float64, error) {
	sp := math.Sin(alpha + beta)
	num := r - sp*sp
	den := math.Cos(2*alpha) * math.Cos(2*beta)
	if den == 0 {
		// Degenerate couplers: the ratio is pinned to sin²(alpha+beta).
		if math.Abs(num) > tol {
			return 0, fmt.Errorf("crossing.MZI.Solve: ratio %.6g pinned at %.6g: %w", r, sp*sp, ErrUnreachableTarget)
		}

		return 0, nil
	}
	s2 := num / den
	if s2 < -tol || s2 > 1+tol {
		return 0, fmt.Errorf("crossing.MZI.Solve: ratio %.6g outside reachable band: %w", r, ErrUnreachableTarget)
	}
	s2 = math.Max(0, math.Min(1, s2))

	return 2 * math.Asin(math.Sqrt(s2)), nil
}

// mziTransfer evaluates the forward map.
func mziTransfer(theta, phi, alpha, beta float64) Matrix2 {
	s, c := math.Sincos(theta / 2)
	sp, cp := math.Sincos(alpha + beta)
	sm, cm := math.Sincos(alpha - beta)
	g := cmplx.Exp(complex(0, theta/2))
	e := cmplx.Exp(complex(0, phi))

	am := complex(-c*sp, s*cm)  // i·S·Cm - C·Sp
	bm := complex(-s*sm, c*cp)  // i·C·Cp - S·Sm
	cm2 := complex(s*sm, c*cp)  // i·C·Cp + S·Sm
	dm := complex(-c*sp, -s*cm) // -i·S·Cm - C·Sp

	return Matrix2{
		{g * e * am, g * bm},
		{g * e * cm2, g * dm},
	}
}

// splitterPair unpacks an optional [alpha, beta] imperfection slice.
func splitterPair(method string, splitter []float64) (alpha, beta float64, err error) {
	switch len(splitter) {
	case 0:
		return 0, 0, nil
	case 2:
		return splitter[0], splitter[1], nil
	default:
		return 0, 0, fmt.Errorf("crossing.MZI.%s: got %d splitter parameters, want 0 or 2: %w", method, len(splitter), ErrBadParams)
	}
}
