package solver

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"
)

// newScaled builds a ScaledProblem directly from decimal inputs.
func newScaled(t *testing.T, numbers []float64, target, precision float64, findAll bool) *ScaledProblem {
	t.Helper()
	p := Problem{Numbers: numbers, Target: target, Precision: precision, FindAll: findAll}
	return p.Scaled()
}

// canonical renders a solution set in an order-insensitive form for
// cross-algorithm comparison.
func canonical(solutions []Solution) [][]int {
	out := make([][]int, 0, len(solutions))
	for _, s := range solutions {
		c := make([]int, len(s))
		copy(c, s)
		sort.Ints(c)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

func solutionSetsEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// TestAllSolvers_FindAll runs the canonical example from every strategy:
// numbers [1,2,3,4,5], target 9, precision 0.05. The qualifying subsets are
// {3,4}, {1,2,3}, and {0,2,4}; every solver must find exactly those.
func TestAllSolvers_FindAll(t *testing.T) {
	t.Parallel()
	want := [][]int{{0, 2, 4}, {1, 2, 3}, {3, 4}}

	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(string(s.Algorithm()), func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, []float64{1, 2, 3, 4, 5}, 9, 0.05, true)
			res, err := s.Solve(context.Background(), sp, NopHook{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if res.Truncated {
				t.Error("unexpected truncation for n=5")
			}
			got := canonical(res.Solutions)
			if !solutionSetsEqual(got, want) {
				t.Errorf("solutions = %v, want %v", got, want)
			}
			for _, sol := range res.Solutions {
				if !sp.Matches(sp.SumOf(sol)) {
					t.Errorf("solution %v sums to %d, outside tolerance of target %d", sol, sp.SumOf(sol), sp.Target)
				}
			}
		})
	}
}

// TestAllSolvers_FirstHitOnly verifies find-all=false yields at most one
// solution from every strategy.
func TestAllSolvers_FirstHitOnly(t *testing.T) {
	t.Parallel()
	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(string(s.Algorithm()), func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 15, 0.05, false)
			res, err := s.Solve(context.Background(), sp, NopHook{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if len(res.Solutions) != 1 {
				t.Fatalf("got %d solutions, want exactly 1", len(res.Solutions))
			}
			if !sp.Matches(sp.SumOf(res.Solutions[0])) {
				t.Errorf("solution %v sums to %d, outside tolerance", res.Solutions[0], sp.SumOf(res.Solutions[0]))
			}
		})
	}
}

// TestAllSolvers_ZeroPrecisionNoMatch verifies precision 0 with a target no
// subset can reach exactly yields an empty result, never a nearest match.
func TestAllSolvers_ZeroPrecisionNoMatch(t *testing.T) {
	t.Parallel()
	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(string(s.Algorithm()), func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, []float64{1, 2, 3, 4, 5}, 8.5, 0, true)
			res, err := s.Solve(context.Background(), sp, NopHook{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if len(res.Solutions) != 0 {
				t.Errorf("got %d solutions for unreachable exact target, want 0", len(res.Solutions))
			}
		})
	}
}

// TestAllSolvers_NegativeValues exercises mixed-sign inputs, which stress the
// DP iteration direction and the branch-and-bound suffix bounds.
func TestAllSolvers_NegativeValues(t *testing.T) {
	t.Parallel()
	numbers := []float64{-3, 7, -1.5, 2.5, 4, -2, 8, 1, 0.5, -0.5}
	// -3 + 7 + (-1.5) + 2.5 = 5, among others.
	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(string(s.Algorithm()), func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, numbers, 5, 0, true)
			res, err := s.Solve(context.Background(), sp, NopHook{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if len(res.Solutions) == 0 {
				t.Fatal("expected at least one solution for reachable target")
			}
			for _, sol := range res.Solutions {
				if sp.SumOf(sol) != sp.Target {
					t.Errorf("solution %v sums to %d, want exactly %d", sol, sp.SumOf(sol), sp.Target)
				}
			}
		})
	}
}

// TestCrossAlgorithmAgreement compares the full solution sets of all four
// strategies on the same problems. With find-all=true the sets must agree in
// membership, not just validity.
func TestCrossAlgorithmAgreement(t *testing.T) {
	t.Parallel()
	problems := []struct {
		name      string
		numbers   []float64
		target    float64
		precision float64
	}{
		{"integers", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 15, 0},
		{"cents", []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09, 0.1}, 0.15, 0},
		{"tolerance window", []float64{1.1, 2.2, 3.3, 4.4, 5.5, 6.6, 7.7, 8.8, 9.9, 11}, 10, 0.25},
		{"mixed signs", []float64{-5, 3, -2, 7, 1, -1, 4, 6, -3, 2}, 4, 0},
	}

	solvers := NewDefaultFactory().GetAll()
	for _, tc := range problems {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var reference [][]int
			for i, s := range solvers {
				sp := newScaled(t, tc.numbers, tc.target, tc.precision, true)
				res, err := s.Solve(context.Background(), sp, NopHook{})
				if err != nil {
					t.Fatalf("%s: %v", s.Name(), err)
				}
				got := canonical(res.Solutions)
				if i == 0 {
					reference = got
					continue
				}
				if !solutionSetsEqual(got, reference) {
					t.Errorf("%s found %v, %s found %v", solvers[0].Name(), reference, s.Name(), got)
				}
			}
		})
	}
}

// countingHook counts suspension points and fails after a budget, simulating
// an external stop.
type countingHook struct {
	calls   int
	stopAt  int
	stopErr error
}

func (h *countingHook) Checkpoint() error {
	h.calls++
	if h.stopAt > 0 && h.calls >= h.stopAt {
		return h.stopErr
	}
	return nil
}

// TestSolvers_HonorHookAbort verifies every strategy propagates the hook
// error promptly and returns its partial result.
func TestSolvers_HonorHookAbort(t *testing.T) {
	t.Parallel()
	abort := errors.New("abort")
	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(string(s.Algorithm()), func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, 1000, 0, true)
			hook := &countingHook{stopAt: 10, stopErr: abort}
			_, err := s.Solve(context.Background(), sp, hook)
			if !errors.Is(err, abort) {
				t.Fatalf("err = %v, want the hook abort error", err)
			}
			// One checkpoint per unit of work: the abort must land well
			// before the exponential space is exhausted.
			if hook.calls > 11 {
				t.Errorf("solver ran %d checkpoints after abort at 10", hook.calls)
			}
		})
	}
}

// TestBitEnum_EarlyExitSkipsEnumeration verifies find-all=false stops at the
// first hit instead of completing the 2^n walk.
func TestBitEnum_EarlyExitSkipsEnumeration(t *testing.T) {
	t.Parallel()
	numbers := make([]float64, 20)
	for i := range numbers {
		numbers[i] = float64(i + 1)
	}
	sp := newScaled(t, numbers, 1, 0, false) // mask 1 is already a hit
	hook := &countingHook{}
	res, err := BitEnumerationSolver{}.Solve(context.Background(), sp, hook)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1", len(res.Solutions))
	}
	if hook.calls > 2 {
		t.Errorf("enumerated %d masks before the trivial hit, want ≤ 2", hook.calls)
	}
}

// TestBitEnum_TruncationFlag verifies oversized inputs are flagged as a
// conservative undercount. The early exit keeps the test fast.
func TestBitEnum_TruncationFlag(t *testing.T) {
	t.Parallel()
	numbers := make([]float64, MaxEnumerationBits+2)
	for i := range numbers {
		numbers[i] = float64(i + 1)
	}
	sp := newScaled(t, numbers, 1, 0, false)
	res, err := BitEnumerationSolver{}.Solve(context.Background(), sp, NopHook{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Truncated {
		t.Errorf("n=%d must report a truncated mask space", len(numbers))
	}
	if len(res.Solutions) != 1 {
		t.Errorf("got %d solutions, want 1", len(res.Solutions))
	}
}

// TestMeetMiddle_RejectsOversizedHalves pins the contract that a
// well-formed problem too large for the half enumerations is rejected with
// an explicit error. A silent empty result here would be indistinguishable
// from "no qualifying subset" even though a single-element hit exists.
func TestMeetMiddle_RejectsOversizedHalves(t *testing.T) {
	t.Parallel()
	for _, n := range []int{2*MaxEnumerationBits + 1, 128, MaxNumbers} {
		numbers := make([]float64, n)
		for i := range numbers {
			numbers[i] = float64(i + 1)
		}
		// Element value 3 exists, so an empty result would be wrong.
		sp := newScaled(t, numbers, 3, 0, false)
		res, err := MeetInMiddleSolver{}.Solve(context.Background(), sp, NopHook{})
		if err == nil {
			t.Fatalf("n=%d: Solve returned %d solutions and no error, want an explicit rejection", n, len(res.Solutions))
		}
		if !strings.Contains(err.Error(), "too large") {
			t.Errorf("n=%d: err = %v, want a too-large rejection", n, err)
		}
	}
}

// TestEstimateMeetMiddleTableBytes covers the feasible range and the
// saturation path for half sizes whose subset count overflows.
func TestEstimateMeetMiddleTableBytes(t *testing.T) {
	t.Parallel()
	small := newScaled(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5, 0, false)
	if got, want := EstimateMeetMiddleTableBytes(small), uint64(1<<5)*halfEntryBytes; got != want {
		t.Errorf("estimate for n=10 = %d, want %d", got, want)
	}

	big := make([]float64, 128)
	for i := range big {
		big[i] = 1
	}
	sp := newScaled(t, big, 5, 0, false)
	if got := EstimateMeetMiddleTableBytes(sp); got != math.MaxUint64 {
		t.Errorf("estimate for n=128 = %d, want saturation to MaxUint64", got)
	}
}

// TestDP_FirstHitReconstruction verifies the single-answer mode rebuilds one
// subset from its parent links: the indices come out ascending and sum
// exactly to the target, including through mixed-sign chains.
func TestDP_FirstHitReconstruction(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		numbers []float64
		target  float64
	}{
		{"integers", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 38},
		{"mixed signs", []float64{-3, 7, -1.5, 2.5, 4, -2, 8, 1, 0.5, -0.5}, 5},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sp := newScaled(t, tc.numbers, tc.target, 0, false)
			res, err := SubsetSumDPSolver{}.Solve(context.Background(), sp, NopHook{})
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if len(res.Solutions) != 1 {
				t.Fatalf("got %d solutions, want exactly 1", len(res.Solutions))
			}
			sol := res.Solutions[0]
			if sp.SumOf(sol) != sp.Target {
				t.Errorf("solution %v sums to %d, want exactly %d", sol, sp.SumOf(sol), sp.Target)
			}
			if !sort.IntsAreSorted(sol) {
				t.Errorf("solution %v should list indices in ascending order", sol)
			}
		})
	}
}

// TestDP_FirstHitEmptySubset pins the base case: a zero target with zero
// precision is satisfied by selecting nothing.
func TestDP_FirstHitEmptySubset(t *testing.T) {
	t.Parallel()
	sp := newScaled(t, []float64{1, 2, 3, 4, 5}, 0, 0, false)
	res, err := SubsetSumDPSolver{}.Solve(context.Background(), sp, NopHook{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Solutions) != 1 || len(res.Solutions[0]) != 0 {
		t.Fatalf("got %v, want exactly the empty subset", res.Solutions)
	}
}

func TestFactory(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()

	if got := len(f.List()); got != 4 {
		t.Fatalf("List() returned %d algorithms, want 4", got)
	}
	for _, algo := range f.List() {
		s, err := f.Get(algo)
		if err != nil {
			t.Fatalf("Get(%s): %v", algo, err)
		}
		if s.Algorithm() != algo {
			t.Errorf("Get(%s) returned solver registered as %s", algo, s.Algorithm())
		}
	}
	if _, err := f.Get(AlgorithmAuto); err == nil {
		t.Error("Get(auto) must fail; auto is resolved by Select, not a solver")
	}
}
