// Package orchestration coordinates the execution of subset-sum searches.
//
// The Engine is the single entry point for a solve: it validates the
// problem, enforces the dynamic-programming memory budget, selects a
// compute backend with graceful degradation from the native library to
// the portable solvers, and runs the search under a control.Controller so
// callers can pause, resume and stop it. CompareAll fans one problem out
// to every explicit strategy concurrently and cross-checks that they
// agree.
package orchestration
