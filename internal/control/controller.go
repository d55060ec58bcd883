// Package control implements the cooperative pause/resume/stop protocol that
// wraps any solver's search loop. The contract: pause and stop set flags
// under a lock, a suspension point blocks on a condition variable while the
// pause flag is set, and stop wakes every paused waiter so it can observe the
// stop and exit instead of deadlocking. Cancellation is cooperative only: a
// solver between two suspension points cannot be preempted.
package control

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/agbru/sumcalc/internal/progress"
	"github.com/agbru/sumcalc/internal/solver"
)

// ErrStopped is returned from a suspension point once stop has been
// requested. It is terminal and non-erroneous: the run carries whatever
// partial result the solver had committed, which may be none.
var ErrStopped = errors.New("solve stopped")

// State is the controller's lifecycle position:
// Idle → Running → {Paused ⇄ Running} → {Completed | Stopped | Failed}.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateStopped
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Controller drives one solver run and exposes the three external signals.
// All three are safe to invoke from a different goroutine than the one
// running the search. A Controller is single-use: create a fresh one per run.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	paused  bool
	stopped atomic.Bool
	// pauseHint mirrors paused so the Checkpoint fast path stays lock-free
	// when neither signal is set.
	pauseHint atomic.Bool

	state atomic.Int32
}

// NewController returns a Controller in the Idle state.
func NewController() *Controller {
	c := &Controller{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Pause requests that the search block at its next suspension point. Pausing
// a run that is not running is a no-op on the state machine but the flag is
// kept, so a pause issued before the first suspension point still takes
// effect.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.paused = true
	c.pauseHint.Store(true)
	c.state.CompareAndSwap(int32(StateRunning), int32(StatePaused))
	c.mu.Unlock()
}

// Resume clears the pause flag and wakes every blocked suspension point.
func (c *Controller) Resume() {
	c.mu.Lock()
	c.paused = false
	c.pauseHint.Store(false)
	c.state.CompareAndSwap(int32(StatePaused), int32(StateRunning))
	c.cond.Broadcast()
	c.mu.Unlock()
}

// Stop requests termination. A paused search is woken so it can observe the
// stop and exit rather than deadlock.
func (c *Controller) Stop() {
	c.stopped.Store(true)
	c.mu.Lock()
	c.cond.Broadcast()
	c.mu.Unlock()
}

// IsPaused reports whether the pause flag is currently set.
func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Checkpoint is the suspension point handed to solvers. It returns
// ErrStopped once stop was requested, blocks while paused, and re-checks
// stop after waking.
func (c *Controller) Checkpoint() error {
	if c.stopped.Load() {
		return ErrStopped
	}
	if !c.pauseHint.Load() {
		return nil
	}
	c.mu.Lock()
	for c.paused && !c.stopped.Load() {
		c.cond.Wait()
	}
	c.mu.Unlock()
	if c.stopped.Load() {
		return ErrStopped
	}
	return nil
}

// Work is one controllable unit of computation: a solver run or a backend
// call that threads the Hook through to its suspension points.
type Work func(hook solver.Hook) (solver.Result, error)

// Run executes one unit of work under this controller, reporting coarse
// progress milestones (start, pre-call, complete) and managing the state
// machine. Cancelling ctx translates into a stop request, so callers compose
// timeouts externally. Run returns the work's partial result together with
// ErrStopped when the run was stopped.
func (c *Controller) Run(ctx context.Context, rep progress.Reporter, work Work) (solver.Result, error) {
	if rep == nil {
		rep = progress.NopReporter{}
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return solver.Result{}, errors.New("controller already used; create a fresh one per run")
	}

	if ctx != nil {
		stop := context.AfterFunc(ctx, c.Stop)
		defer stop()
	}

	rep.Report(progress.Update{Stage: progress.StageStarted, Percent: 0})
	if err := c.Checkpoint(); err != nil {
		c.state.Store(int32(StateStopped))
		return solver.Result{}, err
	}
	rep.Report(progress.Update{Stage: progress.StageSolving, Percent: 10})

	res, err := work(c)
	switch {
	case err == nil:
		c.state.Store(int32(StateCompleted))
		rep.Report(progress.Update{Stage: progress.StageCompleted, Percent: 100})
	case errors.Is(err, ErrStopped):
		c.state.Store(int32(StateStopped))
	default:
		c.state.Store(int32(StateFailed))
	}
	return res, err
}
