package backend

import (
	"context"
	"errors"
	"fmt"
	"plugin"
	"sync"

	"github.com/agbru/sumcalc/internal/solver"
)

// NativeName identifies the accelerated shared-library backend.
const NativeName = "native"

// ErrUnavailable is reported when a backend cannot serve requests, either
// because its library failed to load or it lacks the required symbol.
var ErrUnavailable = errors.New("backend unavailable")

// nativeSymbol is the exported variable the shared library must provide.
const nativeSymbol = "Solver"

// nativeSolver is the contract the shared library's Solver symbol must
// satisfy. It is expressed with builtin types only so the plugin does not
// need to share package-level type identity with the host binary. The
// checkpoint callback is invoked at the library's suspension points and a
// non-nil return aborts the search; the returned free callback releases
// the library-owned solution memory.
type nativeSolver interface {
	Solve(numbers []float64, target, precision float64, findAll bool, algorithm string, workers int, checkpoint func() error) (flat []uint32, rows, cols int, truncated bool, free func(), err error)
}

// Native is the accelerated backend backed by a shared library loaded at
// runtime. Loading is attempted once, on first use; every failure mode
// (missing file, bad symbol, wrong signature) degrades to unavailable
// rather than failing the process.
type Native struct {
	path string

	once    sync.Once
	impl    nativeSolver
	loadErr error
}

// NewNative creates the native backend for the shared library at path. An
// empty path disables the backend without touching the loader.
func NewNative(path string) *Native {
	return &Native{path: path}
}

// Name implements Backend.
func (n *Native) Name() string { return NativeName }

// Available implements Backend. It triggers the one-time library load.
func (n *Native) Available() bool {
	return n.load() == nil
}

// LoadError exposes why the library is unavailable, for diagnostics.
func (n *Native) LoadError() error {
	return n.load()
}

func (n *Native) load() error {
	n.once.Do(func() {
		if n.path == "" {
			n.loadErr = fmt.Errorf("no library path configured: %w", ErrUnavailable)
			return
		}
		p, err := plugin.Open(n.path)
		if err != nil {
			n.loadErr = fmt.Errorf("open %s: %v: %w", n.path, err, ErrUnavailable)
			return
		}
		sym, err := p.Lookup(nativeSymbol)
		if err != nil {
			n.loadErr = fmt.Errorf("lookup %s: %v: %w", nativeSymbol, err, ErrUnavailable)
			return
		}
		impl, ok := sym.(*nativeSolver)
		if !ok || impl == nil || *impl == nil {
			n.loadErr = fmt.Errorf("symbol %s has unexpected type %T: %w", nativeSymbol, sym, ErrUnavailable)
			return
		}
		n.impl = *impl
	})
	return n.loadErr
}

// Compute implements Backend by delegating to the shared library. The
// caller's hook is bridged into the library's checkpoint callback, and
// context cancellation is folded into the same callback so the library
// needs a single abort path.
func (n *Native) Compute(ctx context.Context, req Request, hook solver.Hook) (*ResultBuffer, error) {
	if err := n.load(); err != nil {
		return nil, err
	}
	if hook == nil {
		hook = solver.NopHook{}
	}
	checkpoint := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return hook.Checkpoint()
	}

	flat, rows, cols, truncated, free, err := n.impl.Solve(
		req.Numbers, req.Target, req.Precision,
		req.FindAll, string(req.Algorithm), req.Workers, checkpoint,
	)
	if err != nil {
		if free != nil {
			free()
		}
		return nil, fmt.Errorf("native solve: %w", err)
	}
	if rows*cols != len(flat) {
		if free != nil {
			free()
		}
		return nil, fmt.Errorf("native solve: buffer shape %dx%d does not match %d entries", rows, cols, len(flat))
	}
	return newOwnedBuffer(rows, cols, flat, truncated, free), nil
}
