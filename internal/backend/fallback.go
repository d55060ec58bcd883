package backend

import (
	"context"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/solver"
)

// FallbackName identifies the portable in-process backend.
const FallbackName = "fallback"

// Fallback is the portable backend. It drives the pure-Go solver
// strategies and is always available, so it terminates every selection
// chain.
type Fallback struct {
	factory solver.Factory
}

// NewFallback creates the portable backend around a solver factory.
func NewFallback(factory solver.Factory) *Fallback {
	return &Fallback{factory: factory}
}

// Name implements Backend.
func (f *Fallback) Name() string { return FallbackName }

// Available implements Backend. The fallback has no external requirements.
func (f *Fallback) Available() bool { return true }

// Compute implements Backend by validating, scaling and solving the
// request with the selected in-process strategy.
func (f *Fallback) Compute(ctx context.Context, req Request, hook solver.Hook) (*ResultBuffer, error) {
	requested := req.Algorithm
	if requested == "" {
		requested = solver.AlgorithmAuto
	}
	p := &solver.Problem{
		Numbers:   req.Numbers,
		Target:    req.Target,
		Precision: req.Precision,
		FindAll:   req.FindAll,
		Algorithm: requested,
	}
	if err := p.Validate(); err != nil {
		return nil, apperrors.ValidationError{Message: err.Error()}
	}

	algo := solver.Select(len(req.Numbers), requested)
	s, err := f.factory.Get(algo)
	if err != nil {
		return nil, err
	}

	res, err := s.Solve(ctx, p.Scaled(), hook)
	if err != nil {
		// An interrupted search still hands back the subsets committed
		// so far; the caller decides how to present them.
		return NewResultBuffer(res), apperrors.SolveError{Algorithm: string(algo), Cause: err}
	}
	return NewResultBuffer(res), nil
}
