// Package mesh provides the layered photonic-network container: per-layer
// crossing parameter arrays, mode-routing permutations, a single output
// phase screen, and forward propagation of complex field amplitudes.
//
// A Network owns the storage that configuration algorithms write into. It
// interprets none of the mesh-specific structure beyond layer-local
// geometry: each Layer routes the N physical modes into crossing ports
// (In), applies Count independent 2x2 crossings starting at mode Offset
// with pass-through for the modes outside the window, and routes back
// (Out). A layer is therefore a self-contained N×N unitary, and the
// network's transfer is the product of its layers followed by the output
// phase screen.
//
// Only output-side phase screens are supported; PhaseInput is named but
// rejected at construction.
//
// Propagation is single-writer: configuration happens once, after which the
// network is read-only. ApplyBatch fans independent field columns out over
// a bounded errgroup.
//
// Errors:
//
//	ErrBadModeCount        - mode count not a positive even number.
//	ErrNilCrossing         - no crossing device supplied.
//	ErrUnsupportedPhasePos - phase screen placement other than PhaseOutput.
//	ErrBadPermutation      - a routing slice is not a bijection on modes.
//	ErrShapeMismatch       - a parameter or field array has the wrong shape.
//	ErrLayerBounds         - crossing window outside the mode range.
package mesh
