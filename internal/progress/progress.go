// Package progress defines coarse progress reporting for solver runs.
// Progress is reported at fixed milestones (start, pre-call, complete);
// finer-grained percentages are not guaranteed by the engine.
package progress

import "github.com/agbru/sumcalc/internal/logging"

// Stage identifies a progress milestone.
type Stage string

const (
	// StageStarted is emitted when a run enters the controller.
	StageStarted Stage = "started"
	// StageSolving is emitted immediately before the solver call.
	StageSolving Stage = "solving"
	// StageCompleted is emitted after a successful run.
	StageCompleted Stage = "completed"
)

// Update is one milestone notification.
type Update struct {
	Stage   Stage
	Percent int
}

// Reporter consumes progress updates. Implementations must not block the
// search goroutine.
type Reporter interface {
	Report(Update)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Update)

// Report calls the underlying function.
func (f ReporterFunc) Report(u Update) { f(u) }

// NopReporter discards every update. Used in tests and wherever no
// reporter is supplied.
type NopReporter struct{}

// Report discards the update.
func (NopReporter) Report(Update) {}

// LoggingReporter writes each milestone to the structured log.
type LoggingReporter struct {
	Log logging.Logger
}

// Report logs the milestone at debug level.
func (r LoggingReporter) Report(u Update) {
	if r.Log == nil {
		return
	}
	r.Log.Debug("solve progress",
		logging.String("stage", string(u.Stage)),
		logging.Int("percent", u.Percent),
	)
}

// ChannelReporter forwards updates to a channel without blocking: updates
// are dropped when the consumer lags, which is acceptable for coarse
// milestone reporting.
type ChannelReporter struct {
	Ch chan<- Update
}

// Report performs a non-blocking send.
func (r ChannelReporter) Report(u Update) {
	select {
	case r.Ch <- u:
	default:
	}
}
