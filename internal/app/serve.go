package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/metrics"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/server"
)

// shutdownGrace bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownGrace = 10 * time.Second

// runServe starts the HTTP API and blocks until a termination signal.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	m := metrics.NewSolveMetrics(prometheus.NewRegistry())
	a.engine = a.buildEngine(orchestration.WithMetrics(m))

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           server.NewRouter(a.engine, m, a.logger.WithComponent("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", logging.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.logger.Error("http server failed", logging.Err(err))
		return apperrors.ExitErrorGeneric
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("shutdown incomplete", logging.Err(err))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
