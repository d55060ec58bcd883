package solver

// ─────────────────────────────────────────────────────────────────────────────
// Problem Bounds and Selection Thresholds
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MinNumbers is the smallest accepted problem size. Inputs below this are
	// rejected during validation rather than solved trivially.
	MinNumbers = 10

	// MaxNumbers is the largest accepted problem size. The engine is designed
	// for low hundreds of elements; larger inputs are out of scope.
	MaxNumbers = 200

	// BitEnumAutoLimit is the largest element count for which automatic
	// selection picks bit enumeration. 2^25 masks complete quickly on any
	// modern CPU; beyond that the exponential cost dominates.
	BitEnumAutoLimit = 25

	// MeetMiddleAutoLimit is the largest element count for which automatic
	// selection picks meet-in-the-middle. At n=40 each half enumerates at
	// most 2^20 subsets, which keeps both tables comfortably in memory.
	MeetMiddleAutoLimit = 40

	// MaxEnumerationBits caps the mask space explored by bit enumeration.
	// Masks at or beyond 2^30 are not visited; the result is then a
	// conservative undercount and is flagged as truncated.
	MaxEnumerationBits = 30
)
