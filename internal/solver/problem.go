package solver

import (
	"fmt"
	"sort"
)

// Algorithm identifies a subset-sum search strategy.
type Algorithm string

// Recognized algorithm names. AlgorithmAuto delegates the choice to Select.
const (
	AlgorithmAuto        Algorithm = "auto"
	AlgorithmBitEnum     Algorithm = "bit_enum"
	AlgorithmMeetMiddle  Algorithm = "meet_middle"
	AlgorithmDP          Algorithm = "dp"
	AlgorithmBranchBound Algorithm = "branch_bound"
)

// ParseAlgorithm converts a string to an Algorithm, rejecting unknown names.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmAuto, AlgorithmBitEnum, AlgorithmMeetMiddle, AlgorithmDP, AlgorithmBranchBound:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown algorithm %q (valid: %v)", s, append([]Algorithm{AlgorithmAuto}, Algorithms()...))
}

// Algorithms returns the explicit (non-auto) algorithms in sorted order.
func Algorithms() []Algorithm {
	algos := []Algorithm{AlgorithmBitEnum, AlgorithmBranchBound, AlgorithmDP, AlgorithmMeetMiddle}
	sort.Slice(algos, func(i, j int) bool { return algos[i] < algos[j] })
	return algos
}

// Problem is an immutable description of one subset-sum search. Indices into
// Numbers are the solution identity: a Solution refers to positions in this
// slice, never to values.
type Problem struct {
	// Numbers is the ordered input sequence. Each value is expected to carry
	// at most two fractional decimal digits (enforced upstream by the loader).
	Numbers []float64
	// Target is the sum the search aims for.
	Target float64
	// Precision is the non-negative tolerance around Target. Zero requires an
	// exact match in scaled-integer space.
	Precision float64
	// FindAll selects between exhaustive search (true) and stopping at the
	// first qualifying subset (false).
	FindAll bool
	// Algorithm names the requested strategy, or AlgorithmAuto to let the
	// selector decide from the problem size.
	Algorithm Algorithm
}

// Solution is an ordered (by discovery) list of distinct indices into the
// originating Problem's Numbers.
type Solution []int

// Result carries the solutions produced by one solver run.
type Result struct {
	// Solutions is empty when no qualifying subset exists; that is not an
	// error. With FindAll false it holds at most one entry.
	Solutions []Solution
	// Truncated reports that the search space was capped (bit enumeration
	// beyond 2^30 masks) and the result may be a conservative undercount.
	Truncated bool
}

// ScaledProblem is a Problem converted to exact fixed-point integers. It is
// derived once per run and discarded afterwards.
type ScaledProblem struct {
	Numbers   []int64
	Target    int64
	Precision int64
	FindAll   bool
}

// Scaled derives the fixed-point form of the problem. Numbers, target, and
// precision all go through the same rounding rule.
func (p *Problem) Scaled() *ScaledProblem {
	scaled := &ScaledProblem{
		Numbers:   make([]int64, len(p.Numbers)),
		Target:    Scale(p.Target),
		Precision: Scale(p.Precision),
		FindAll:   p.FindAll,
	}
	for i, v := range p.Numbers {
		scaled.Numbers[i] = Scale(v)
	}
	return scaled
}

// Validate rejects malformed problems before any solver runs. A nil error
// guarantees the problem is well-formed per the engine's contract: size
// within bounds, non-negative precision, and a recognized algorithm name.
func (p *Problem) Validate() error {
	if n := len(p.Numbers); n < MinNumbers || n > MaxNumbers {
		return fmt.Errorf("problem size %d outside supported range [%d, %d]", n, MinNumbers, MaxNumbers)
	}
	if p.Precision < 0 {
		return fmt.Errorf("precision must be non-negative, got %g", p.Precision)
	}
	if _, err := ParseAlgorithm(string(p.Algorithm)); err != nil {
		return err
	}
	return nil
}

// Matches reports whether a scaled subset sum falls within the tolerance
// window around the scaled target.
func (sp *ScaledProblem) Matches(sum int64) bool {
	diff := sum - sp.Target
	if diff < 0 {
		diff = -diff
	}
	return diff <= sp.Precision
}

// SumOf returns the scaled sum of the referenced elements.
func (sp *ScaledProblem) SumOf(indices Solution) int64 {
	var sum int64
	for _, i := range indices {
		sum += sp.Numbers[i]
	}
	return sum
}
