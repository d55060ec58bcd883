package orchestration

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/sumcalc/internal/backend"
	"github.com/agbru/sumcalc/internal/control"
	"github.com/agbru/sumcalc/internal/solver"
)

// AlgorithmResult is the outcome of one strategy in a comparison run.
type AlgorithmResult struct {
	// Algorithm is the strategy that ran.
	Algorithm solver.Algorithm
	// Outcome is nil on failure, except for an interrupted run, which
	// keeps its partial findings alongside Err.
	Outcome *Outcome
	// Err contains any error that occurred during the solve.
	Err error
}

// CompareAll runs the same request on every explicit strategy concurrently
// and returns one result per strategy, successes first, fastest first.
// A single strategy failing (for example the dynamic-programming table
// exceeding its budget) does not abort the others; cancellation of ctx
// stops them all.
func (e *Engine) CompareAll(ctx context.Context, req backend.Request) ([]AlgorithmResult, error) {
	algos := e.factory.List()
	results := make([]AlgorithmResult, len(algos))

	g, ctx := errgroup.WithContext(ctx)
	for i, algo := range algos {
		idx, algorithm := i, algo
		g.Go(func() error {
			r := req
			r.Algorithm = algorithm
			outcome, err := e.Compute(ctx, r, control.NewController(), nil)
			results[idx] = AlgorithmResult{Algorithm: algorithm, Outcome: outcome, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		if results[i].Err != nil {
			return false
		}
		return results[i].Outcome.Duration < results[j].Outcome.Duration
	})
	return results, nil
}

// VerifyConsistency cross-checks the successful results of a comparison
// run. In exhaustive mode every untruncated strategy must produce the same
// set of solutions; in first-hit mode the solutions may differ, so each is
// only checked against the target window. A nil error means the strategies
// agree.
func VerifyConsistency(results []AlgorithmResult, req backend.Request) error {
	p := solver.Problem{
		Numbers:   req.Numbers,
		Target:    req.Target,
		Precision: req.Precision,
	}
	sp := p.Scaled()

	if !req.FindAll {
		for _, r := range results {
			if r.Err != nil || r.Outcome == nil {
				continue
			}
			for _, sol := range r.Outcome.Solutions {
				if !sp.Matches(sp.SumOf(sol)) {
					return fmt.Errorf("%s returned subset %v outside the target window", r.Algorithm, sol)
				}
			}
		}
		return nil
	}

	var reference []AlgorithmResult
	for _, r := range results {
		if r.Err == nil && r.Outcome != nil && !r.Outcome.Truncated {
			reference = append(reference, r)
		}
	}
	if len(reference) < 2 {
		return nil
	}
	base := canonicalKey(reference[0].Outcome.Solutions)
	for _, r := range reference[1:] {
		if key := canonicalKey(r.Outcome.Solutions); key != base {
			return fmt.Errorf("solution sets differ: %s found %d solutions, %s found %d",
				reference[0].Algorithm, len(reference[0].Outcome.Solutions),
				r.Algorithm, len(r.Outcome.Solutions))
		}
	}
	return nil
}

// canonicalKey reduces a solution set to an order-insensitive string form
// so two sets can be compared regardless of discovery order.
func canonicalKey(solutions []solver.Solution) string {
	keys := make([]string, len(solutions))
	for i, sol := range solutions {
		sorted := append(solver.Solution(nil), sol...)
		sort.Ints(sorted)
		keys[i] = fmt.Sprint(sorted)
	}
	sort.Strings(keys)
	return fmt.Sprint(keys)
}
