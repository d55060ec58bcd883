// Package app wires configuration, engine and presentation into the
// application entry point and owns the process lifecycle: signal handling,
// timeout composition and exit codes.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/agbru/sumcalc/internal/backend"
	"github.com/agbru/sumcalc/internal/config"
	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/solver"
	"github.com/agbru/sumcalc/internal/ui"
)

// Application represents the sumcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   solver.Factory
	ErrWriter io.Writer

	logger logging.Logger
	engine *orchestration.Engine
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom solver factory for the application.
func WithFactory(f solver.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = solver.NewDefaultFactory()
	}

	var cmdArgs []string
	if len(args) > 0 {
		cmdArgs = args[1:]
	}
	cfg, err := config.ParseFlags(cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// IsHelpError reports whether the error came from the user asking for the
// flag usage text, which is not a failure.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// HasVersionFlag reports whether the arguments request the version string.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the build version.
func PrintVersion(out io.Writer) {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Fprintf(out, "sumcalc %s\n", version)
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(false)
	a.logger = logging.New(a.ErrWriter, a.Config.LogLevel)
	a.engine = a.buildEngine()

	if a.Config.Serve {
		return a.runServe(ctx)
	}
	if a.Config.Compare {
		return a.runCompare(ctx, out)
	}
	return a.runSolve(ctx, out)
}

// buildEngine assembles the engine with the native backend when one is
// configured.
func (a *Application) buildEngine(opts ...orchestration.Option) *orchestration.Engine {
	if a.Config.NativeLib != "" {
		native := backend.NewNative(a.Config.NativeLib)
		if !native.Available() {
			a.logger.Warn("native library unavailable, using portable solvers",
				logging.String("path", a.Config.NativeLib),
				logging.Err(native.LoadError()))
		}
		opts = append(opts, orchestration.WithPrimaryBackend(native))
	}
	return orchestration.NewEngine(a.Factory, a.logger.WithComponent("engine"), opts...)
}

// configError reports a configuration-stage failure and returns its exit
// code.
func (a *Application) configError(err error) int {
	fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	return apperrors.ExitErrorConfig
}
