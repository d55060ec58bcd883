package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/agbru/sumcalc/internal/backend"
	"github.com/agbru/sumcalc/internal/control"
	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/loader"
	"github.com/agbru/sumcalc/internal/logging"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/progress"
	"github.com/agbru/sumcalc/internal/solver"
)

// SolveHandler serves solve and comparison requests.
type SolveHandler struct {
	engine *orchestration.Engine
	logger logging.Logger
}

// NewSolveHandler creates the handler around a shared engine.
func NewSolveHandler(engine *orchestration.Engine, logger logging.Logger) *SolveHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SolveHandler{engine: engine, logger: logger}
}

// SolveRequest is the JSON body of POST /api/v1/solve.
type SolveRequest struct {
	Numbers   []float64 `json:"numbers"`
	Target    float64   `json:"target"`
	Precision float64   `json:"precision,omitempty"`
	FindAll   bool      `json:"find_all,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"`
	Workers   int       `json:"workers,omitempty"`
}

// SolveResponse is the JSON body of a successful solve.
type SolveResponse struct {
	RunID      string  `json:"run_id"`
	Algorithm  string  `json:"algorithm"`
	Backend    string  `json:"backend"`
	Truncated  bool    `json:"truncated"`
	Solutions  [][]int `json:"solutions"`
	DurationMs float64 `json:"duration_ms"`
}

// CompareResponse is the JSON body of a comparison run.
type CompareResponse struct {
	RunID      string                  `json:"run_id"`
	Consistent bool                    `json:"consistent"`
	Results    []CompareStrategyResult `json:"results"`
}

// CompareStrategyResult is one strategy's entry in a comparison response.
type CompareStrategyResult struct {
	Algorithm  string  `json:"algorithm"`
	Error      string  `json:"error,omitempty"`
	Solutions  int     `json:"solutions"`
	Truncated  bool    `json:"truncated,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// Solve handles POST /api/v1/solve.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	req, runID, ok := h.decode(w, r)
	if !ok {
		return
	}

	outcome, err := h.engine.Compute(r.Context(), req, control.NewController(),
		progress.LoggingReporter{Log: h.logger})
	if err != nil {
		h.writeError(w, runID, err)
		return
	}

	solutions := make([][]int, len(outcome.Solutions))
	for i, sol := range outcome.Solutions {
		solutions[i] = append([]int{}, sol...)
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		RunID:      runID,
		Algorithm:  string(outcome.Algorithm),
		Backend:    outcome.Backend,
		Truncated:  outcome.Truncated,
		Solutions:  solutions,
		DurationMs: float64(outcome.Duration.Microseconds()) / 1000,
	})
}

// Compare handles POST /api/v1/compare: it runs every strategy and reports
// per-strategy outcomes plus the cross-check verdict.
func (h *SolveHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, runID, ok := h.decode(w, r)
	if !ok {
		return
	}

	results, err := h.engine.CompareAll(r.Context(), req)
	if err != nil {
		h.writeError(w, runID, err)
		return
	}

	resp := CompareResponse{
		RunID:      runID,
		Consistent: orchestration.VerifyConsistency(results, req) == nil,
	}
	for _, res := range results {
		entry := CompareStrategyResult{Algorithm: string(res.Algorithm)}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else {
			entry.Solutions = len(res.Outcome.Solutions)
			entry.Truncated = res.Outcome.Truncated
			entry.DurationMs = float64(res.Outcome.Duration.Microseconds()) / 1000
		}
		resp.Results = append(resp.Results, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode parses and pre-validates the request body, assigning a run ID.
func (h *SolveHandler) decode(w http.ResponseWriter, r *http.Request) (backend.Request, string, bool) {
	runID := uuid.New().String()

	var body SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"run_id": runID, "error": "invalid request body",
		})
		return backend.Request{}, runID, false
	}
	if err := loader.ValidateNumbers(body.Numbers); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"run_id": runID, "error": err.Error(),
		})
		return backend.Request{}, runID, false
	}

	algo := solver.AlgorithmAuto
	if body.Algorithm != "" {
		parsed, err := solver.ParseAlgorithm(body.Algorithm)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"run_id": runID, "error": err.Error(),
			})
			return backend.Request{}, runID, false
		}
		algo = parsed
	}

	h.logger.Info("solve request accepted",
		logging.String("run_id", runID),
		logging.Int("size", len(body.Numbers)),
		logging.String("algorithm", string(algo)),
		logging.Bool("find_all", body.FindAll),
	)
	return backend.Request{
		Numbers:   body.Numbers,
		Target:    body.Target,
		Precision: body.Precision,
		FindAll:   body.FindAll,
		Algorithm: algo,
		Workers:   body.Workers,
	}, runID, true
}

// writeError maps engine errors onto HTTP statuses mirroring the process
// exit-code mapping.
func (h *SolveHandler) writeError(w http.ResponseWriter, runID string, err error) {
	status := http.StatusInternalServerError
	var (
		valErr apperrors.ValidationError
		memErr apperrors.MemoryError
	)
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
	case errors.As(err, &memErr):
		status = http.StatusInsufficientStorage
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, control.ErrStopped), errors.Is(err, context.Canceled):
		// Client went away or the run was stopped mid-flight.
		status = 499
	}
	h.logger.Warn("solve request failed",
		logging.String("run_id", runID),
		logging.Int("status", status),
		logging.Err(err),
	)
	writeJSON(w, status, map[string]string{"run_id": runID, "error": err.Error()})
}
