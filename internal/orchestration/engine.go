package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/sumcalc/internal/backend"
	"github.com/agbru/sumcalc/internal/control"
	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/metrics"
	"github.com/agbru/sumcalc/internal/progress"
	"github.com/agbru/sumcalc/internal/solver"
	"github.com/agbru/sumcalc/internal/sysmon"
)

// Outcome encapsulates the result of a single completed solve. It serves as
// a standardized container across backends and strategies, facilitating
// comparison and reporting.
type Outcome struct {
	// Solutions holds the qualifying subsets, as index lists into the
	// request's Numbers. Empty means no subset matched; that is success.
	Solutions []solver.Solution
	// Truncated reports that the search space was capped and the solution
	// list may be a conservative undercount.
	Truncated bool
	// Algorithm is the strategy that actually ran (after auto-selection).
	Algorithm solver.Algorithm
	// Backend names the backend that produced the result.
	Backend string
	// Duration is the wall-clock time of the search.
	Duration time.Duration
}

// Engine runs solve requests end to end. Construct it once with NewEngine
// and share it; per-run state lives in the control.Controller passed to
// Compute.
type Engine struct {
	primary  backend.Backend
	fallback backend.Backend
	factory  solver.Factory
	logger   logging.Logger
	metrics  *metrics.SolveMetrics
	tracer   trace.Tracer
	memory   *metrics.MemoryCollector

	// availableMem is swapped in tests to exercise the budget check
	// without depending on the host's actual memory.
	availableMem func() uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrimaryBackend sets a preferred backend tried before the portable
// fallback, typically the native library.
func WithPrimaryBackend(b backend.Backend) Option {
	return func(e *Engine) { e.primary = b }
}

// WithMetrics attaches solve instrumentation.
func WithMetrics(m *metrics.SolveMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer used to span each solve.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an engine around the portable solver factory. The
// fallback backend is always present; options add the native backend and
// observability.
func NewEngine(factory solver.Factory, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		factory:      factory,
		fallback:     backend.NewFallback(factory),
		logger:       logger,
		tracer:       otel.Tracer("sumcalc/orchestration"),
		memory:       metrics.NewMemoryCollector(),
		availableMem: sysmon.MemAvailableBytes,
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs one solve request under ctrl. A nil ctrl gets a private
// controller, which makes the run cancelable only through ctx. On a stop
// request the partial result gathered so far is returned together with
// control.ErrStopped.
func (e *Engine) Compute(ctx context.Context, req backend.Request, ctrl *control.Controller, rep progress.Reporter) (*Outcome, error) {
	if ctrl == nil {
		ctrl = control.NewController()
	}
	if req.Algorithm == "" {
		req.Algorithm = solver.AlgorithmAuto
	}

	p := &solver.Problem{
		Numbers:   req.Numbers,
		Target:    req.Target,
		Precision: req.Precision,
		FindAll:   req.FindAll,
		Algorithm: req.Algorithm,
	}
	if err := p.Validate(); err != nil {
		return nil, apperrors.ValidationError{Message: err.Error()}
	}
	algo := solver.Select(len(req.Numbers), req.Algorithm)
	req.Algorithm = algo

	if err := e.checkMemoryBudget(algo, p); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "solve",
		trace.WithAttributes(
			attribute.String("algorithm", string(algo)),
			attribute.Int("problem.size", len(req.Numbers)),
			attribute.Bool("problem.find_all", req.FindAll),
		))
	defer span.End()

	if e.metrics != nil {
		e.metrics.SolveStarted()
	}
	start := time.Now()

	usedBackend := e.fallback.Name()
	res, err := ctrl.Run(ctx, rep, func(hook solver.Hook) (solver.Result, error) {
		name, r, runErr := e.dispatch(ctx, req, hook)
		usedBackend = name
		return r, runErr
	})
	elapsed := time.Since(start)

	// A stop triggered by the context keeps the cause (deadline vs
	// cancellation) visible in the error chain.
	if errors.Is(err, control.ErrStopped) && ctx.Err() != nil {
		err = fmt.Errorf("%w (%w)", err, ctx.Err())
	}

	status := metrics.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, control.ErrStopped):
		status = metrics.StatusStopped
	default:
		status = metrics.StatusError
	}
	if e.metrics != nil {
		e.metrics.SolveFinished(string(algo), usedBackend, status, elapsed, len(res.Solutions))
	}
	if err != nil && !errors.Is(err, control.ErrStopped) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	heap := e.memory.Snapshot()
	sys := sysmon.Sample()
	e.logger.Debug("solve finished",
		logging.String("algorithm", string(algo)),
		logging.String("backend", usedBackend),
		logging.Int("solutions", len(res.Solutions)),
		logging.Bool("truncated", res.Truncated),
		logging.Duration("elapsed", elapsed),
		logging.Uint64("heap_alloc", heap.HeapAlloc),
		logging.Float64("cpu_percent", sys.CPUPercent),
		logging.Float64("mem_percent", sys.MemPercent),
	)

	outcome := &Outcome{
		Solutions: res.Solutions,
		Truncated: res.Truncated,
		Algorithm: algo,
		Backend:   usedBackend,
		Duration:  elapsed,
	}
	if res.Truncated {
		e.logger.Warn("search space capped; results may be incomplete",
			logging.String("algorithm", string(algo)),
			logging.Int("size", len(req.Numbers)))
	}
	return outcome, err
}

// dispatch runs the request on the primary backend when one is available,
// degrading to the portable fallback when the primary cannot serve or
// fails for backend-internal reasons. Solver-level failures (hook aborts,
// cancellation) are never retried on the fallback: they would only repeat.
func (e *Engine) dispatch(ctx context.Context, req backend.Request, hook solver.Hook) (string, solver.Result, error) {
	if e.primary != nil && e.primary.Available() {
		res, err := e.computeOn(ctx, e.primary, req, hook)
		if err == nil {
			return e.primary.Name(), res, nil
		}
		if errors.Is(err, control.ErrStopped) || apperrors.IsContextError(err) {
			return e.primary.Name(), res, err
		}
		e.logger.Warn("primary backend failed, degrading to fallback",
			logging.String("backend", e.primary.Name()),
			logging.Err(err))
	}
	res, err := e.computeOn(ctx, e.fallback, req, hook)
	return e.fallback.Name(), res, err
}

// computeOn runs one backend call and immediately decodes and releases the
// result buffer, so buffer lifetime never escapes the engine.
func (e *Engine) computeOn(ctx context.Context, b backend.Backend, req backend.Request, hook solver.Hook) (solver.Result, error) {
	buf, err := b.Compute(ctx, req, hook)
	if buf == nil {
		return solver.Result{}, err
	}
	defer func() {
		if relErr := buf.Release(); relErr != nil {
			e.logger.Error("result buffer release failed", logging.Err(relErr))
		}
	}()
	sols, decodeErr := buf.Solutions()
	if decodeErr != nil {
		return solver.Result{}, decodeErr
	}
	// err may be an interruption carried alongside a partial buffer.
	return solver.Result{Solutions: sols, Truncated: buf.Truncated}, err
}

// checkMemoryBudget rejects a run whose working tables would exceed
// available memory. Only the dynamic-programming reachability table and the
// meet-in-the-middle half table have a size knowable up front; the other
// strategies allocate proportionally to their output. An unknown
// availability (probe failure) skips the check; the affected solvers still
// enforce their own hard caps.
func (e *Engine) checkMemoryBudget(algo solver.Algorithm, p *solver.Problem) error {
	var needed uint64
	switch algo {
	case solver.AlgorithmDP:
		needed = solver.EstimateDPTableBytes(p.Scaled())
	case solver.AlgorithmMeetMiddle:
		needed = solver.EstimateMeetMiddleTableBytes(p.Scaled())
	default:
		return nil
	}
	available := e.availableMem()
	if available > 0 && needed > available {
		return apperrors.MemoryError{Requested: needed, Available: available}
	}
	return nil
}
