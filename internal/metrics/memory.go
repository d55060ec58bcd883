package metrics

import "runtime"

// MemorySnapshot captures the heap counters the solve pipeline reports after
// a search: live heap bytes, total bytes claimed from the OS, and the number
// of completed collections.
type MemorySnapshot struct {
	HeapAlloc uint64
	Sys       uint64
	NumGC     uint32
}

// MemoryCollector samples the Go runtime's memory statistics. A reading
// stops the world briefly, so callers take one per solve, not per
// checkpoint.
type MemoryCollector struct{}

func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot returns a point-in-time reading.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{HeapAlloc: m.HeapAlloc, Sys: m.Sys, NumGC: m.NumGC}
}
