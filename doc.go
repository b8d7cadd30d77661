// Package meshes configures programmable photonic mesh networks: cascades
// of 2x2 optical crossings that physically realize a target N x N unitary
// transformation on N optical modes.
//
// 🚀 What is meshes?
//
//	A library that turns a target unitary matrix into the physical control
//	parameters of an FFT-butterfly interferometer mesh:
//		• Butterfly topology: layer strides and routing permutations from N alone
//		• Recursive decomposition: block SVD down to per-crossing 2x2 targets
//		• Phase solving: device parameters plus a global output phase screen
//		• Forward propagation: single fields or parallel batches for validation
//
// Everything is organized under five subpackages and one command:
//
//	cmat/      — dense complex matrices and the one-sided Jacobi SVD
//	crossing/  — the 2x2 device contract and the Mach-Zehnder implementation
//	mesh/      — the layered network container and field propagation
//	butterfly/ — topology generation, decomposition and phase solving
//	unitary/   — Haar sampling, DFT matrices and closeness metrics
//	cmd/meshbench — accuracy and throughput sweeps over random targets
//
// Quick ASCII example (N = 4, strides 1, 2, 1):
//
//	m0 ──[X]── m0 ──[X]──── m0 ──[X]── m0 ──(phi0)──
//	m1 ──[X]── m1 ───╲╱──── m1 ──[X]── m1 ──(phi1)──
//	m2 ──[X]── m2 ───╱╲──── m2 ──[X]── m2 ──(phi2)──
//	m3 ──[X]── m3 ──[X]──── m3 ──[X]── m3 ──(phi3)──
//
//	three layers of two crossings each; the middle layer couples modes at
//	stride 2, and phi is the output phase screen.
//
// Configuration is exact up to floating-point precision: composing the
// solved crossings through the topology reproduces the target matrix to
// better than 1e-10 relative error for Haar-random unitaries.
//
//	go get github.com/photonq/meshes
package meshes
