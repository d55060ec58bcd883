package solver

import (
	"context"
	"fmt"
)

// Hook is a suspension point callback. Solvers invoke Checkpoint at dense,
// predictable intervals (one enumerated mask, one DP element, one recursive
// call); a non-nil return aborts the search and is propagated unchanged to
// the caller together with whatever partial result the solver had committed.
type Hook interface {
	Checkpoint() error
}

// NopHook is a Hook that never suspends. Used when no external control is
// attached, and by tests.
type NopHook struct{}

// Checkpoint always allows the search to continue.
func (NopHook) Checkpoint() error { return nil }

// Solver is one subset-sum search strategy. Implementations are stateless
// and safe to reuse across runs; all search state is local to Solve.
type Solver interface {
	// Name returns a human-readable strategy name for display and logging.
	Name() string
	// Algorithm returns the identifier under which the solver is registered.
	Algorithm() Algorithm
	// Solve searches the scaled problem. It returns the solutions found so
	// far and the hook's error when the run is interrupted; an empty result
	// with a nil error means no qualifying subset exists.
	Solve(ctx context.Context, sp *ScaledProblem, hook Hook) (Result, error)
}

// Factory provides access to the registered solver implementations.
type Factory interface {
	// Get retrieves the solver for an explicit algorithm. AlgorithmAuto is
	// not a solver; resolve it through Select first.
	Get(algo Algorithm) (Solver, error)
	// List returns the registered algorithm identifiers in sorted order.
	List() []Algorithm
	// GetAll returns every registered solver, ordered as List.
	GetAll() []Solver
}

type defaultFactory struct {
	solvers map[Algorithm]Solver
}

// NewDefaultFactory returns a factory holding the four reference solvers.
func NewDefaultFactory() Factory {
	solvers := []Solver{
		BitEnumerationSolver{},
		MeetInMiddleSolver{},
		SubsetSumDPSolver{},
		BranchAndBoundSolver{},
	}
	byAlgo := make(map[Algorithm]Solver, len(solvers))
	for _, s := range solvers {
		byAlgo[s.Algorithm()] = s
	}
	return &defaultFactory{solvers: byAlgo}
}

func (f *defaultFactory) Get(algo Algorithm) (Solver, error) {
	s, ok := f.solvers[algo]
	if !ok {
		return nil, fmt.Errorf("no solver registered for algorithm %q", algo)
	}
	return s, nil
}

func (f *defaultFactory) List() []Algorithm {
	return Algorithms()
}

func (f *defaultFactory) GetAll() []Solver {
	all := make([]Solver, 0, len(f.solvers))
	for _, algo := range f.List() {
		all = append(all, f.solvers[algo])
	}
	return all
}

// checkpoint funnels hook errors through a single call site so solvers can
// keep their inner loops free of nil checks.
func checkpoint(hook Hook) error {
	if hook == nil {
		return nil
	}
	return hook.Checkpoint()
}
