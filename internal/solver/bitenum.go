package solver

import (
	"context"
	"math/bits"
)

// BitEnumerationSolver enumerates every subset mask from 0 to 2^n−1 and
// tests each candidate sum against the tolerance window. Complexity is
// O(2^n · n); automatic selection uses it only for n ≤ 25.
//
// The mask space is capped at 2^30. Masks beyond the cap are not explored;
// the result is then a conservative undercount flagged via Result.Truncated
// rather than an error.
type BitEnumerationSolver struct{}

// Name returns the display name of the strategy.
func (BitEnumerationSolver) Name() string { return "Bit Enumeration" }

// Algorithm returns the registration identifier.
func (BitEnumerationSolver) Algorithm() Algorithm { return AlgorithmBitEnum }

// Solve walks the mask space in ascending order, yielding at every mask.
func (BitEnumerationSolver) Solve(ctx context.Context, sp *ScaledProblem, hook Hook) (Result, error) {
	n := len(sp.Numbers)

	enumBits := n
	var res Result
	if enumBits > MaxEnumerationBits {
		enumBits = MaxEnumerationBits
		res.Truncated = true
	}
	total := uint64(1) << uint(enumBits)

	for mask := uint64(0); mask < total; mask++ {
		if err := checkpoint(hook); err != nil {
			return res, err
		}

		var sum int64
		for m := mask; m != 0; m &= m - 1 {
			sum += sp.Numbers[bits.TrailingZeros64(m)]
		}

		if sp.Matches(sum) {
			indices := make(Solution, 0, bits.OnesCount64(mask))
			for m := mask; m != 0; m &= m - 1 {
				indices = append(indices, bits.TrailingZeros64(m))
			}
			res.Solutions = append(res.Solutions, indices)
			if !sp.FindAll {
				return res, nil
			}
		}
	}
	return res, nil
}
