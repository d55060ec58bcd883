// Package solver implements the bounded subset-sum search engine.
//
// Given a multiset of decimal numbers, a target sum, and a tolerance, the
// package finds index subsets whose sum falls within the tolerance of the
// target. Four algorithmically distinct strategies are provided, each with a
// different complexity/precision trade-off:
//
//   - BitEnumerationSolver: exhaustive mask enumeration, O(2^n · n).
//   - MeetInMiddleSolver: halve-and-merge with binary search, O(2^(n/2) · n).
//   - SubsetSumDPSolver: offset-indexed reachability table with path
//     reconstruction, memory proportional to the attainable sum range.
//   - BranchAndBoundSolver: pruned depth-first search ordered by magnitude.
//
// All arithmetic happens on fixed-point scaled integers (see Scale) so that
// up to 200 additions never accumulate binary floating-point error. Solvers
// yield at dense suspension points through the Hook interface, which lets an
// external controller pause, resume, or stop a long-running search.
package solver
