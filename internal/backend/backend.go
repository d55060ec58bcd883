package backend

import (
	"context"

	"github.com/agbru/sumcalc/internal/solver"
)

// Request carries everything a backend needs to run a complete search. It
// is self-contained: no backend retains state between calls, so a Request
// can be replayed against a different backend to cross-check results.
type Request struct {
	// Numbers holds the candidate values, in input order.
	Numbers []float64

	// Target is the sum to reach.
	Target float64

	// Precision is the maximum allowed |sum - target|. Zero means exact
	// match at the fixed-point resolution.
	Precision float64

	// FindAll requests every qualifying subset; when false the search
	// stops at the first hit.
	FindAll bool

	// Algorithm names the strategy to use, or solver.AlgorithmAuto to let
	// the backend pick based on problem size.
	Algorithm solver.Algorithm

	// Workers is a parallelism hint. Zero lets the backend decide;
	// backends without internal parallelism ignore it.
	Workers int
}

// Backend executes a subset-sum search request. Implementations must honor
// context cancellation and call the hook at suspension points so the
// caller can pause or stop a long search.
type Backend interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string

	// Available reports whether this backend can serve requests. A
	// backend that fails to initialize reports false and is skipped.
	Available() bool

	// Compute runs the search and returns the solutions as a
	// ResultBuffer the caller must Release. The returned error follows
	// the solver error taxonomy. An interrupted search may return a
	// partial buffer together with its error; a nil buffer carries
	// nothing to release.
	Compute(ctx context.Context, req Request, hook solver.Hook) (*ResultBuffer, error)
}

// Choose returns the first available backend from the candidates, falling
// back to the last one when none reports available. Callers list the
// preferred (native) backend first and the portable fallback last, so the
// chain always resolves to a usable backend.
func Choose(candidates ...Backend) Backend {
	for _, b := range candidates {
		if b.Available() {
			return b
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[len(candidates)-1]
}
