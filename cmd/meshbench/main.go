// Command meshbench validates butterfly-mesh configuration end to end:
// an accuracy sweep reconstructs Haar-random targets through the solved
// mesh and reports the relative error statistics, and an optional
// throughput sweep measures forward-propagation speed on a batch of
// random fields.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/photonq/meshes/butterfly"
	"github.com/photonq/meshes/cmat"
	"github.com/photonq/meshes/unitary"
)

// crossingFlops is the flop count charged per crossing application: one
// complex 2x2 matrix-vector product (4 complex multiplies, 2 complex adds).
const crossingFlops = 32

type options struct {
	size     int
	runs     int
	batch    int
	seed     uint64
	tol      float64
	parallel bool
	bench    bool
}

func main() {
	var opts options
	flag.IntVar(&opts.size, "n", 64, "mesh size (power of two)")
	flag.IntVar(&opts.runs, "runs", 10, "accuracy sweep: number of Haar targets")
	flag.IntVar(&opts.batch, "batch", 256, "throughput sweep: batch columns")
	flag.Uint64Var(&opts.seed, "seed", 1, "base RNG seed (0 = fixed default)")
	flag.Float64Var(&opts.tol, "tol", 1e-10, "relative error tolerance")
	flag.BoolVar(&opts.parallel, "parallel", true, "parallel decomposition branches")
	flag.BoolVar(&opts.bench, "bench", false, "also run the throughput sweep")
	flag.Parse()

	logger := log.New(os.Stderr, "meshbench: ", 0)
	if err := run(opts, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(opts options, logger *log.Logger) error {
	if opts.runs < 1 || opts.batch < 1 {
		return fmt.Errorf("runs and batch must be positive (got %d, %d)", opts.runs, opts.batch)
	}
	errs, err := accuracySweep(opts, logger)
	if err != nil {
		return err
	}
	mean := stat.Mean(errs, nil)
	sd := stat.StdDev(errs, nil)
	worst := floats.Max(errs)
	fmt.Printf("accuracy: n=%d runs=%d mean=%.3e stddev=%.3e max=%.3e\n",
		opts.size, opts.runs, mean, sd, worst)
	if worst > opts.tol {
		return fmt.Errorf("worst reconstruction error %.3e exceeds tolerance %.3e", worst, opts.tol)
	}

	if opts.bench {
		if err := throughputSweep(opts); err != nil {
			return err
		}
	}

	return nil
}

// accuracySweep configures one mesh per Haar target and measures the
// relative Frobenius reconstruction error.
func accuracySweep(opts options, logger *log.Logger) ([]float64, error) {
	errs := make([]float64, opts.runs)
	for r := 0; r < opts.runs; r++ {
		u, err := unitary.Haar(opts.size, opts.seed+uint64(r))
		if err != nil {
			return nil, err
		}
		start := time.Now()
		net, err := butterfly.New(butterfly.Config{Target: u, Parallel: opts.parallel})
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", r, err)
		}
		solved := time.Since(start)

		got, err := net.Transfer(context.Background())
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", r, err)
		}
		errs[r] = unitary.Distance(got, u)
		logger.Printf("run %d: err=%.3e solve=%s", r, errs[r], solved)
	}

	return errs, nil
}

// throughputSweep propagates a random batch through a randomly
// parameterized mesh and reports crossing throughput and effective flops.
func throughputSweep(opts options) error {
	net, err := butterfly.New(butterfly.DefaultConfig(opts.size))
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(opts.seed))
	for i := 0; i < net.Depth(); i++ {
		ly, err := net.Layer(i)
		if err != nil {
			return err
		}
		for j := range ly.Phase {
			for k := range ly.Phase[j] {
				ly.Phase[j][k] = rng.Float64() * 2 * math.Pi
			}
		}
	}

	fields, err := cmat.NewDense(opts.size, opts.batch)
	if err != nil {
		return err
	}
	for m := 0; m < opts.size; m++ {
		row := fields.Row(m)
		for c := range row {
			row[c] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
	}

	// Warm once, then time repeated batches for at least a second.
	if _, err := net.ApplyBatch(context.Background(), fields); err != nil {
		return err
	}
	var reps int
	start := time.Now()
	for elapsed := time.Duration(0); elapsed < time.Second; elapsed = time.Since(start) {
		if _, err := net.ApplyBatch(context.Background(), fields); err != nil {
			return err
		}
		reps++
	}
	elapsed := time.Since(start)

	crossings := float64(net.Depth()) * float64(opts.size/2) * float64(opts.batch) * float64(reps)
	rate := crossings / elapsed.Seconds()
	fmt.Printf("throughput: n=%d batch=%d reps=%d crossings/s=%.3e gflops=%.3f\n",
		opts.size, opts.batch, reps, rate, rate*crossingFlops/1e9)

	return nil
}
