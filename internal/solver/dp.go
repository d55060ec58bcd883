package solver

import (
	"context"
	"fmt"
)

// SubsetSumDPSolver builds a dense reachability table over every attainable
// scaled sum from minSum (sum of all negative values) to maxSum (sum of all
// positive values), offset so index 0 maps to minSum. Memory is
// O(maxSum − minSum), which scales with the value range rather than the
// element count; that is a known limit of the strategy and the reason it is
// never auto-selected. Callers can bound the cost up front through
// EstimateDPTableBytes.
type SubsetSumDPSolver struct{}

// maxDPTableEntries is a hard ceiling on the table width. Beyond it the
// allocation alone would dwarf any realistic memory budget, so the solver
// reports the exhaustion explicitly instead of attempting it.
const maxDPTableEntries = 1 << 31

// dpNoElement marks a sum with no recorded predecessor. Only the base sum
// zero carries it once the table is filled.
const dpNoElement = -1

// Name returns the display name of the strategy.
func (SubsetSumDPSolver) Name() string { return "Dynamic Programming" }

// Algorithm returns the registration identifier.
func (SubsetSumDPSolver) Algorithm() Algorithm { return AlgorithmDP }

// sumRange returns the attainable scaled sum bounds of the problem.
func sumRange(sp *ScaledProblem) (minSum, maxSum int64) {
	for _, v := range sp.Numbers {
		if v > 0 {
			maxSum += v
		} else {
			minSum += v
		}
	}
	return minSum, maxSum
}

// EstimateDPTableBytes approximates the resident size of the DP reachability
// table for a problem, before any allocation happens. The estimate covers the
// boolean table plus the per-sum bookkeeping: path slots when every solution
// is collected, parent links otherwise. The wider of the two is charged.
func EstimateDPTableBytes(sp *ScaledProblem) uint64 {
	minSum, maxSum := sumRange(sp)
	width := uint64(maxSum-minSum) + 1
	// 1 byte per bool plus 24 bytes per path-slice header.
	return width * 25
}

// Solve fills the table one element at a time, yielding once per element.
// Sums are visited in the direction that guarantees each element is used at
// most once per subset (the classic 0/1 knapsack order): decreasing for
// positive values, increasing for negative ones. Reusing the array without
// that ordering would let a single element be counted multiple times.
//
// Path materialization depends on the mode: with FindAll every index list
// reaching a sum is kept as the table fills; otherwise the fill records only
// parent links, and a single path is rebuilt for the first reachable sum
// inside the target window.
func (SubsetSumDPSolver) Solve(ctx context.Context, sp *ScaledProblem, hook Hook) (Result, error) {
	var res Result

	minSum, maxSum := sumRange(sp)
	width := maxSum - minSum + 1
	if width > maxDPTableEntries {
		return res, fmt.Errorf("dp table needs %d entries for sum range [%d, %d]: value range too wide for this strategy", width, minSum, maxSum)
	}

	if sp.FindAll {
		return dpAllPaths(sp, hook, minSum, maxSum, width)
	}
	return dpFirstPath(sp, hook, minSum, maxSum, width)
}

// dpAllPaths collects every index list reaching every sum, then copies out
// the lists of the sums inside the target window.
func dpAllPaths(sp *ScaledProblem, hook Hook, minSum, maxSum, width int64) (Result, error) {
	var res Result

	offset := -minSum
	reach := make([]bool, width)
	paths := make([][]Solution, width)

	reach[offset] = true
	paths[offset] = []Solution{{}}

	for i, v := range sp.Numbers {
		if err := checkpoint(hook); err != nil {
			return res, err
		}
		if v >= 0 {
			for j := maxSum; j >= minSum+v; j-- {
				extendPaths(reach, paths, j, v, offset, i)
			}
		} else {
			for j := minSum; j <= maxSum+v; j++ {
				extendPaths(reach, paths, j, v, offset, i)
			}
		}
	}

	low, high := dpWindow(sp, minSum, maxSum)
	for s := low; s <= high; s++ {
		res.Solutions = append(res.Solutions, paths[s+offset]...)
	}
	return res, nil
}

// dpFirstPath fills the table with one parent link per sum: the element that
// first reached it and the sum it extended. No path exists until a window
// sum turns out reachable; only then is one subset rebuilt by walking the
// links back to the base.
func dpFirstPath(sp *ScaledProblem, hook Hook, minSum, maxSum, width int64) (Result, error) {
	var res Result

	offset := -minSum
	reach := make([]bool, width)
	elem := make([]int32, width)
	prev := make([]int64, width)
	for i := range elem {
		elem[i] = dpNoElement
	}
	reach[offset] = true

	for i, v := range sp.Numbers {
		if err := checkpoint(hook); err != nil {
			return res, err
		}
		if v >= 0 {
			for j := maxSum; j >= minSum+v; j-- {
				linkParent(reach, elem, prev, j, v, offset, i)
			}
		} else {
			for j := minSum; j <= maxSum+v; j++ {
				linkParent(reach, elem, prev, j, v, offset, i)
			}
		}
	}

	low, high := dpWindow(sp, minSum, maxSum)
	for s := low; s <= high; s++ {
		if reach[s+offset] {
			res.Solutions = []Solution{walkParents(elem, prev, s, offset)}
			break
		}
	}
	return res, nil
}

// dpWindow clamps the target window to the attainable sum range.
func dpWindow(sp *ScaledProblem, minSum, maxSum int64) (low, high int64) {
	low, high = sp.Target-sp.Precision, sp.Target+sp.Precision
	if low < minSum {
		low = minSum
	}
	if high > maxSum {
		high = maxSum
	}
	return low, high
}

// extendPaths applies element i (value v) to target sum j, appending every
// path of j−v extended by i.
func extendPaths(reach []bool, paths [][]Solution, j, v, offset int64, i int) {
	from := j - v
	if !reach[from+offset] {
		return
	}
	reach[j+offset] = true
	for _, p := range paths[from+offset] {
		next := make(Solution, len(p), len(p)+1)
		copy(next, p)
		paths[j+offset] = append(paths[j+offset], append(next, i))
	}
}

// linkParent marks sum j reachable through element i (value v) unless an
// earlier element already reached it. The knapsack visit order guarantees
// reach[j−v] reflects prior rounds only, so every chain of links decreases
// in element index.
func linkParent(reach []bool, elem []int32, prev []int64, j, v, offset int64, i int) {
	from := j - v
	if !reach[from+offset] || reach[j+offset] {
		return
	}
	reach[j+offset] = true
	elem[j+offset] = int32(i)
	prev[j+offset] = from
}

// walkParents rebuilds the subset reaching sum s by following parent links
// to the base, then reverses it into ascending element order.
func walkParents(elem []int32, prev []int64, s, offset int64) Solution {
	sol := Solution{}
	for cur := s; elem[cur+offset] != dpNoElement; cur = prev[cur+offset] {
		sol = append(sol, int(elem[cur+offset]))
	}
	for l, r := 0, len(sol)-1; l < r; l, r = l+1, r-1 {
		sol[l], sol[r] = sol[r], sol[l]
	}
	return sol
}
