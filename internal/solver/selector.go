package solver

// Select resolves the algorithm for a problem of n elements. An explicit
// request is honored verbatim, with no size-based override. Automatic
// selection picks by element count:
//
//	n ≤ 25  → bit enumeration
//	n ≤ 40  → meet-in-the-middle
//	n > 40  → branch-and-bound
//
// The dynamic-programming solver is never auto-selected: its memory cost
// scales with the attainable value range rather than the element count, which
// can be far worse than the other strategies for sparse, large-magnitude
// inputs. It runs only when requested explicitly.
func Select(n int, requested Algorithm) Algorithm {
	if requested != AlgorithmAuto && requested != "" {
		return requested
	}
	switch {
	case n <= BitEnumAutoLimit:
		return AlgorithmBitEnum
	case n <= MeetMiddleAutoLimit:
		return AlgorithmMeetMiddle
	default:
		return AlgorithmBranchBound
	}
}
