package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/sumcalc/internal/progress"
)

// ProgressRefreshRate defines the refresh frequency of the spinner.
const ProgressRefreshRate = 200 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the progress reporter from a specific
// spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// SpinnerReporter renders solve milestones as a terminal spinner. It starts
// the spinner on the first update and stops it at completion; Close stops
// it unconditionally for aborted runs.
type SpinnerReporter struct {
	sp      Spinner
	started bool
}

// NewSpinnerReporter creates a spinner-backed progress reporter writing to
// out.
func NewSpinnerReporter(out io.Writer) *SpinnerReporter {
	return &SpinnerReporter{sp: newSpinner(spinner.WithWriter(out))}
}

// Report implements progress.Reporter.
func (r *SpinnerReporter) Report(u progress.Update) {
	switch u.Stage {
	case progress.StageStarted:
		if !r.started {
			r.started = true
			r.sp.Start()
		}
		r.sp.UpdateSuffix(" preparing search...")
	case progress.StageSolving:
		r.sp.UpdateSuffix(fmt.Sprintf(" searching... (%d%%)", u.Percent))
	case progress.StageCompleted:
		r.sp.UpdateSuffix(" done")
		r.Close()
	}
}

// Close stops the spinner if it is running. Safe to call more than once.
func (r *SpinnerReporter) Close() {
	if r.started {
		r.started = false
		r.sp.Stop()
	}
}
