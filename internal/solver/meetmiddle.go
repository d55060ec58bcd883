package solver

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// MeetInMiddleSolver splits the indices into two halves, enumerates each
// half's subsets independently, and matches complementary sums through a
// sorted table and binary search. This reduces the exponential blowup from
// 2^n to roughly 2^(n/2); automatic selection uses it for 25 < n ≤ 40.
type MeetInMiddleSolver struct{}

// halfEntry pairs one first-half subset sum with the indices producing it.
type halfEntry struct {
	sum     int64
	indices Solution
}

// halfEntryBytes approximates the resident size of one first-half table
// entry: the sum plus the index slice header. The indices themselves are
// excluded, which keeps the estimate a lower bound.
const halfEntryBytes = 32

// EstimateMeetMiddleTableBytes approximates the resident size of the sorted
// first-half table, before any allocation happens. Half sizes whose subset
// count does not fit the estimate saturate to MaxUint64.
func EstimateMeetMiddleTableBytes(sp *ScaledProblem) uint64 {
	mid := len(sp.Numbers) / 2
	if mid > 57 {
		return math.MaxUint64
	}
	return (uint64(1) << uint(mid)) * halfEntryBytes
}

// Name returns the display name of the strategy.
func (MeetInMiddleSolver) Name() string { return "Meet-in-the-Middle" }

// Algorithm returns the registration identifier.
func (MeetInMiddleSolver) Algorithm() Algorithm { return AlgorithmMeetMiddle }

// Solve enumerates the first half [0, mid) into a sum-sorted table, then for
// each second-half subset locates the complementary tolerance window
// [target−sum−precision, target−sum+precision] in that table. Every pair
// emitted from the forward scan lies inside the window by construction, so
// no recheck of the combined sum is needed.
func (MeetInMiddleSolver) Solve(ctx context.Context, sp *ScaledProblem, hook Hook) (Result, error) {
	n := len(sp.Numbers)
	mid := n / 2

	var res Result

	// Both halves enumerate 2^half subsets; beyond the cap the shift
	// arithmetic and the table allocation are unsound, so the problem is
	// rejected explicitly instead of silently returning nothing.
	if n-mid > MaxEnumerationBits {
		return res, fmt.Errorf("meet-in-the-middle needs %d-bit half enumerations for %d elements: problem too large for this strategy", n-mid, n)
	}

	firstHalf := make([]halfEntry, 0, 1<<uint(mid))
	for mask := uint64(0); mask < 1<<uint(mid); mask++ {
		if err := checkpoint(hook); err != nil {
			return res, err
		}
		var sum int64
		var indices Solution
		for i := 0; i < mid; i++ {
			if mask&(1<<uint(i)) != 0 {
				sum += sp.Numbers[i]
				indices = append(indices, i)
			}
		}
		firstHalf = append(firstHalf, halfEntry{sum: sum, indices: indices})
	}
	sort.Slice(firstHalf, func(i, j int) bool { return firstHalf[i].sum < firstHalf[j].sum })

	rest := n - mid
	for mask := uint64(0); mask < 1<<uint(rest); mask++ {
		if err := checkpoint(hook); err != nil {
			return res, err
		}
		var sum int64
		var indices Solution
		for i := 0; i < rest; i++ {
			if mask&(1<<uint(i)) != 0 {
				sum += sp.Numbers[mid+i]
				indices = append(indices, mid+i)
			}
		}

		windowLow := sp.Target - sum - sp.Precision
		windowHigh := sp.Target - sum + sp.Precision

		// First entry with sum ≥ windowLow; the forward scan is bounded
		// because first-half sums are sorted.
		start := sort.Search(len(firstHalf), func(i int) bool { return firstHalf[i].sum >= windowLow })
		for i := start; i < len(firstHalf) && firstHalf[i].sum <= windowHigh; i++ {
			combined := make(Solution, 0, len(firstHalf[i].indices)+len(indices))
			combined = append(combined, firstHalf[i].indices...)
			combined = append(combined, indices...)
			res.Solutions = append(res.Solutions, combined)
			if !sp.FindAll {
				return res, nil
			}
		}
	}
	return res, nil
}
