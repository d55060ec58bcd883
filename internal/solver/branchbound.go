package solver

import (
	"context"
	"sort"
)

// BranchAndBoundSolver performs depth-first backtracking over two choices per
// index (exclude, then include), with indices visited in descending order of
// absolute scaled value. The greedy ordering tends to reach the target window
// sooner and lets the remaining-sum bound prune more aggressively. Automatic
// selection uses it for n > 40 with a single-answer objective; exhaustive
// find-all on large n is supported but expected to be slow.
type BranchAndBoundSolver struct{}

// Name returns the display name of the strategy.
func (BranchAndBoundSolver) Name() string { return "Branch and Bound" }

// Algorithm returns the registration identifier.
func (BranchAndBoundSolver) Algorithm() Algorithm { return AlgorithmBranchBound }

// bbSearch holds the per-run search state. The found flag propagates the
// single-answer short-circuit up the whole recursion: once any descendant
// signals a hit, every caller stops exploring.
type bbSearch struct {
	sp      *ScaledProblem
	hook    Hook
	values  []int64 // scaled values in descending |value| order
	origIdx []int   // position in values -> original index
	// suffixPos[d] / suffixNeg[d] are the sums of the positive / negative
	// values from position d onward, used for window pruning.
	suffixPos []int64
	suffixNeg []int64
	res       *Result
	found     bool
}

// Solve orders the elements, then backtracks from the empty prefix. Each
// subset is tested exactly once, at the node reached by including its last
// element (plus the empty subset at the root), so find-all mode never emits
// duplicates.
func (BranchAndBoundSolver) Solve(ctx context.Context, sp *ScaledProblem, hook Hook) (Result, error) {
	n := len(sp.Numbers)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return abs64(sp.Numbers[order[a]]) > abs64(sp.Numbers[order[b]])
	})

	s := &bbSearch{
		sp:        sp,
		hook:      hook,
		values:    make([]int64, n),
		origIdx:   order,
		suffixPos: make([]int64, n+1),
		suffixNeg: make([]int64, n+1),
		res:       &Result{},
	}
	for pos, idx := range order {
		s.values[pos] = sp.Numbers[idx]
	}
	for d := n - 1; d >= 0; d-- {
		s.suffixPos[d] = s.suffixPos[d+1]
		s.suffixNeg[d] = s.suffixNeg[d+1]
		if s.values[d] > 0 {
			s.suffixPos[d] += s.values[d]
		} else {
			s.suffixNeg[d] += s.values[d]
		}
	}

	// The empty subset is the root node; accept it like any other.
	if sp.Matches(0) {
		s.res.Solutions = append(s.res.Solutions, Solution{})
		if !sp.FindAll {
			return *s.res, nil
		}
	}

	if err := s.walk(0, 0, make(Solution, 0, n)); err != nil {
		return *s.res, err
	}
	return *s.res, nil
}

// walk explores positions depth..n-1 given the current inclusion prefix.
// path holds original indices in inclusion order.
func (s *bbSearch) walk(depth int, sum int64, path Solution) error {
	if err := checkpoint(s.hook); err != nil {
		return err
	}
	if s.found || depth == len(s.values) {
		return nil
	}

	// Window pruning is exact: every deeper sum stays inside
	// [sum+suffixNeg, sum+suffixPos]. Single-answer mode only, keeping
	// find-all traversal identical to plain exhaustive enumeration.
	if !s.sp.FindAll {
		if sum+s.suffixPos[depth] < s.sp.Target-s.sp.Precision ||
			sum+s.suffixNeg[depth] > s.sp.Target+s.sp.Precision {
			return nil
		}
	}

	// Exclude before include: the first acceptance in this order is the
	// short-circuit result.
	if err := s.walk(depth+1, sum, path); err != nil {
		return err
	}
	if s.found {
		return nil
	}

	included := sum + s.values[depth]
	path = append(path, s.origIdx[depth])
	if s.sp.Matches(included) {
		hit := make(Solution, len(path))
		copy(hit, path)
		s.res.Solutions = append(s.res.Solutions, hit)
		if !s.sp.FindAll {
			s.found = true
			return nil
		}
	}
	err := s.walk(depth+1, included, path)
	path = path[:len(path)-1]
	return err
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
