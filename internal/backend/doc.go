// Package backend defines the compute backend contract shared by the
// portable in-process solvers and an optional native accelerated library.
//
// A Backend receives a complete problem description in one Request and
// returns a ResultBuffer: a flat, index-encoded view of every solution
// found. Buffers own memory that may live outside the Go heap (the native
// backend allocates in the shared library), so callers must call Release
// exactly once when done; Release is idempotent-checked and a second call
// reports ErrBufferReleased rather than corrupting state.
//
// Backend selection is a degradation chain: the native library is used
// when it loads and reports the required capability, and the portable
// fallback otherwise. The chain is assembled once with Choose.
package backend
