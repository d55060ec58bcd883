package backend

import (
	"errors"
	"fmt"

	"github.com/agbru/sumcalc/internal/solver"
)

// ErrBufferReleased is reported when a ResultBuffer is used or released
// after its memory has already been returned.
var ErrBufferReleased = errors.New("result buffer already released")

// sentinelIndex pads rows shorter than the buffer's column count. Element
// indices are bounded by the maximum problem size, so the sentinel can
// never collide with a real index.
const sentinelIndex = ^uint32(0)

// ResultBuffer is the flat solution encoding shared with the native
// library. Solutions are stored row-major: rows solutions, each padded to
// cols entries with sentinelIndex. The buffer owns its memory until
// Release is called; for the native backend that memory lives outside the
// Go heap and the free callback returns it to the library's allocator.
type ResultBuffer struct {
	rows int
	cols int
	data []uint32

	// Truncated is set when the search gave up before covering the full
	// space (enumeration cap reached).
	Truncated bool

	released bool
	free     func()
}

// NewResultBuffer encodes a solver result into the flat buffer layout.
// The fallback backend uses it so both backends hand identical structures
// to the caller.
func NewResultBuffer(res solver.Result) *ResultBuffer {
	cols := 0
	for _, sol := range res.Solutions {
		if len(sol) > cols {
			cols = len(sol)
		}
	}
	buf := &ResultBuffer{
		rows:      len(res.Solutions),
		cols:      cols,
		data:      make([]uint32, len(res.Solutions)*cols),
		Truncated: res.Truncated,
	}
	for r, sol := range res.Solutions {
		base := r * cols
		for c := range buf.data[base : base+cols] {
			if c < len(sol) {
				buf.data[base+c] = uint32(sol[c])
			} else {
				buf.data[base+c] = sentinelIndex
			}
		}
	}
	return buf
}

// newOwnedBuffer wraps memory owned elsewhere (the native library) together
// with the callback that releases it.
func newOwnedBuffer(rows, cols int, data []uint32, truncated bool, free func()) *ResultBuffer {
	return &ResultBuffer{rows: rows, cols: cols, data: data, Truncated: truncated, free: free}
}

// Len returns the number of solutions held by the buffer.
func (b *ResultBuffer) Len() int { return b.rows }

// Solutions decodes the flat buffer back into index slices. It fails after
// Release because the underlying memory may already be reused.
func (b *ResultBuffer) Solutions() ([]solver.Solution, error) {
	if b.released {
		return nil, ErrBufferReleased
	}
	out := make([]solver.Solution, 0, b.rows)
	for r := 0; r < b.rows; r++ {
		row := b.data[r*b.cols : (r+1)*b.cols]
		sol := make(solver.Solution, 0, b.cols)
		for _, idx := range row {
			if idx == sentinelIndex {
				break
			}
			sol = append(sol, int(idx))
		}
		out = append(out, sol)
	}
	return out, nil
}

// Release returns the buffer's memory. It must be called exactly once per
// buffer; a second call reports ErrBufferReleased so double-free bugs
// surface in tests instead of corrupting the allocator.
func (b *ResultBuffer) Release() error {
	if b.released {
		return fmt.Errorf("release: %w", ErrBufferReleased)
	}
	b.released = true
	b.data = nil
	if b.free != nil {
		b.free()
		b.free = nil
	}
	return nil
}
