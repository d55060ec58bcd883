package app

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/sumcalc/internal/backend"
	"github.com/agbru/sumcalc/internal/cli"
	"github.com/agbru/sumcalc/internal/control"
	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/export"
	"github.com/agbru/sumcalc/internal/loader"
	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/progress"
)

// loadNumbers resolves the problem input from the configured source.
func (a *Application) loadNumbers() ([]float64, error) {
	if a.Config.InputFile != "" {
		return loader.Load(a.Config.InputFile)
	}
	if err := loader.ValidateNumbers(a.Config.Numbers); err != nil {
		return nil, err
	}
	return a.Config.Numbers, nil
}

// request builds the backend request from the configuration and input.
func (a *Application) request(numbers []float64) backend.Request {
	return backend.Request{
		Numbers:   numbers,
		Target:    a.Config.Target,
		Precision: a.Config.Precision,
		FindAll:   a.Config.FindAll,
		Algorithm: a.Config.Algorithm(),
		Workers:   a.Config.EffectiveWorkers(),
	}
}

// lifecycle composes the global timeout and SIGINT/SIGTERM handling.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// runSolve executes a one-shot search and presents the result.
func (a *Application) runSolve(ctx context.Context, out io.Writer) int {
	numbers, err := a.loadNumbers()
	if err != nil {
		return a.configError(err)
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	// Quiet mode still records milestones in the structured log; the
	// interactive path feeds the spinner through a channel so rendering
	// never runs on the search goroutine.
	var reporter progress.Reporter = progress.LoggingReporter{Log: a.logger.WithComponent("progress")}
	var spinner *cli.SpinnerReporter
	var updates chan progress.Update
	var spinnerDone chan struct{}
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		spinner = cli.NewSpinnerReporter(out)
		updates = make(chan progress.Update, 16)
		spinnerDone = make(chan struct{})
		go func() {
			defer close(spinnerDone)
			for u := range updates {
				spinner.Report(u)
			}
		}()
		reporter = progress.ChannelReporter{Ch: updates}
	}

	outcome, err := a.engine.Compute(ctx, a.request(numbers), control.NewController(), reporter)
	if updates != nil {
		close(updates)
		<-spinnerDone
	}
	if spinner != nil {
		spinner.Close()
	}

	// A stopped run still carries its partial findings; present them
	// before reporting the exit code.
	if outcome != nil && (err == nil || errors.Is(err, control.ErrStopped)) {
		cli.PresentOutcome(outcome, numbers, out)
		if exportErr := a.exportIfConfigured(numbers, outcome); exportErr != nil {
			return apperrors.HandleSolveError(exportErr, a.ErrWriter)
		}
	}
	return apperrors.HandleSolveError(err, a.ErrWriter)
}

// runCompare executes every strategy and presents the comparison table.
func (a *Application) runCompare(ctx context.Context, out io.Writer) int {
	numbers, err := a.loadNumbers()
	if err != nil {
		return a.configError(err)
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
	}

	req := a.request(numbers)
	req.Algorithm = "" // per-strategy requests are set by CompareAll
	results, err := a.engine.CompareAll(ctx, req)
	if err != nil {
		return apperrors.HandleSolveError(err, a.ErrWriter)
	}

	cli.PresentComparisonTable(results, out)
	consistency := orchestration.VerifyConsistency(results, req)
	cli.PresentConsistency(consistency, out)
	if consistency != nil {
		return apperrors.ExitErrorMismatch
	}

	for _, res := range results {
		if res.Err != nil && !errors.Is(res.Err, control.ErrStopped) {
			// Partial failure: the table showed it; degrade the exit
			// code without masking the successful strategies.
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}

// exportIfConfigured writes the CSV membership matrix when an output file
// was requested.
func (a *Application) exportIfConfigured(numbers []float64, outcome *orchestration.Outcome) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	if err := export.SaveCSV(a.Config.OutputFile, numbers, a.Config.Target, outcome.Solutions); err != nil {
		return err
	}
	a.logger.Info("solutions exported",
		logging.String("path", a.Config.OutputFile),
		logging.Int("solutions", len(outcome.Solutions)))
	return nil
}
