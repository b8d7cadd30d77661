package butterfly

import (
	"fmt"
	"math/cmplx"

	"github.com/photonq/meshes/crossing"
	"github.com/photonq/meshes/mesh"
)

// SolvePhases converts the decomposed amplitudes into physical crossing
// parameters, writing them into net's layers and installing the residual
// per-mode phases as the output screen.
//
// Layers are processed strictly in propagation order. Each crossing is
// solvable only up to a phase per output port: the inverse solve fixes the
// shape of the 2x2 transfer but not its embedding phase in the larger
// network. The unresolved phases form an accumulator, seeded from bias
// (nil for zero), that is gathered into port order at each layer, absorbed
// multiplicatively into the layer's target input columns before solving,
// replaced by the new residual - the phase of each target row against the
// solved device's row - and scattered back to mode order for the next
// layer. Whatever remains after the last layer becomes the output screen.
//
// The residual of output port a is arg<T_a, D_a>, the phase of the inner
// product of the device row against the target row. The rows are parallel
// for unitary targets, and the inner product stays away from zero even
// when individual entries vanish (bar and cross states).
//
// net must carry topo's layers in order, built by New. Fails when the
// device rejects a target row (ErrUnreachableTarget for amplitudes outside
// its range, reflecting a malformed arena).
//
// Complexity: O(n^2) sequential; no layer can be solved before its
// predecessor's residual is known.
func SolvePhases(topo *Topology, amps *Amplitudes, net *mesh.Network, bias []float64) error {
	n := topo.N
	dev := net.Crossing()
	phi := make([]float64, n)
	copy(phi, bias)
	port := make([]float64, n)

	for i, lt := range topo.Layers {
		ly, err := net.Layer(i)
		if err != nil {
			return err
		}

		// Gather the accumulator into port order.
		if lt.Gather == nil {
			copy(port, phi)
		} else {
			for k, m := range lt.Gather {
				port[k] = phi[m]
			}
		}

		for j := 0; j < n/2; j++ {
			// Absorb upstream phases into the target's input columns.
			amps.scaleInput(i, j, 0, cmplx.Rect(1, port[2*j]))
			amps.scaleInput(i, j, 1, cmplx.Rect(1, port[2*j+1]))

			row0 := [2]complex128{amps.At(i, j, 0, 0), amps.At(i, j, 0, 1)}
			params, err := dev.Solve(row0, crossing.SolveRow0, ly.Splitter[j])
			if err != nil {
				return fmt.Errorf("butterfly: layer %d crossing %d: %w", i, j, err)
			}
			copy(ly.Phase[j], params)

			t, err := dev.Transfer(ly.Phase[j], ly.Splitter[j])
			if err != nil {
				return fmt.Errorf("butterfly: layer %d crossing %d: %w", i, j, err)
			}
			port[2*j] = rowResidual(amps, t, i, j, 0)
			port[2*j+1] = rowResidual(amps, t, i, j, 1)
		}

		// Scatter the new residual back to physical mode order.
		if lt.Scatter == nil {
			copy(phi, port)
		} else {
			for m := range phi {
				phi[m] = port[lt.Scatter[m]]
			}
		}
	}

	return net.SetOutputPhase(phi)
}

// rowResidual returns the phase by which target row a of crossing (i, j)
// leads the solved device's row a.
func rowResidual(amps *Amplitudes, t crossing.Matrix2, i, j, a int) float64 {
	var z complex128
	for b := 0; b < 2; b++ {
		z += amps.At(i, j, a, b) * cmplx.Conj(t[a][b])
	}

	return cmplx.Phase(z)
}
