package config

import "runtime"

// Workers resolution chain (highest priority first):
//  1. CLI flag (--workers)
//  2. Environment variable (SUMCALC_WORKERS)
//  3. YAML configuration file
//  4. Hardware estimation (this file)

// DefaultWorkers provides a heuristic parallelism hint from the hardware
// without running benchmarks. The in-process solvers are single-threaded
// per run, so the hint mostly guides the native backend and the comparison
// fan-out.
func DefaultWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1 // parallelism overhead dominates on tiny machines
	case numCPU <= 8:
		return numCPU - 1 // keep one core for the UI and the runtime
	default:
		return 8 // search phases stop scaling past this
	}
}
