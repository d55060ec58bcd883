package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/sumcalc/internal/config"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/solver"
	"github.com/agbru/sumcalc/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetTheme("none") // keep assertions free of ANSI codes
	m.Run()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2 * time.Minute, "2m0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Numbers = []float64{1, 2, 3}
	cfg.Target = 5.5

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, &buf)

	out := buf.String()
	if !strings.Contains(out, "target=5.50") {
		t.Errorf("output %q should include the target", out)
	}
	if !strings.Contains(out, "3 inline values") {
		t.Errorf("output %q should describe the inline input", out)
	}
}

func TestPresentOutcome(t *testing.T) {
	numbers := []float64{1.50, 2.25, 3.75, 4.00}
	outcome := &orchestration.Outcome{
		Solutions: []solver.Solution{{0, 2}, {1}},
		Algorithm: solver.AlgorithmBitEnum,
		Backend:   "fallback",
		Duration:  3 * time.Millisecond,
	}

	var buf bytes.Buffer
	PresentOutcome(outcome, numbers, &buf)

	out := buf.String()
	if !strings.Contains(out, "2 solution(s) found") {
		t.Errorf("output %q should count the solutions", out)
	}
	if !strings.Contains(out, "1.50[1] + 3.75[3] = 5.25") {
		t.Errorf("output %q should render values with 1-based positions", out)
	}
	if !strings.Contains(out, "bit_enum") || !strings.Contains(out, "fallback") {
		t.Errorf("output %q should name algorithm and backend", out)
	}
}

func TestPresentOutcome_Empty(t *testing.T) {
	outcome := &orchestration.Outcome{Algorithm: solver.AlgorithmDP, Backend: "fallback"}
	var buf bytes.Buffer
	PresentOutcome(outcome, nil, &buf)

	if !strings.Contains(buf.String(), "No qualifying subset found") {
		t.Errorf("output %q should state that nothing was found", buf.String())
	}
}

func TestPresentOutcome_Truncated(t *testing.T) {
	outcome := &orchestration.Outcome{
		Solutions: []solver.Solution{{0}},
		Truncated: true,
		Algorithm: solver.AlgorithmBitEnum,
		Backend:   "fallback",
	}
	var buf bytes.Buffer
	PresentOutcome(outcome, []float64{9.99}, &buf)

	if !strings.Contains(buf.String(), "capped") {
		t.Errorf("output %q should warn about the capped search space", buf.String())
	}
}

func TestPresentOutcome_EmptySubset(t *testing.T) {
	outcome := &orchestration.Outcome{
		Solutions: []solver.Solution{{}},
		Algorithm: solver.AlgorithmDP,
		Backend:   "fallback",
	}
	var buf bytes.Buffer
	PresentOutcome(outcome, []float64{1}, &buf)

	if !strings.Contains(buf.String(), "(empty subset)") {
		t.Errorf("output %q should render the empty subset explicitly", buf.String())
	}
}

func TestPresentComparisonTable(t *testing.T) {
	results := []orchestration.AlgorithmResult{
		{
			Algorithm: solver.AlgorithmBitEnum,
			Outcome: &orchestration.Outcome{
				Solutions: []solver.Solution{{0}},
				Duration:  2 * time.Millisecond,
			},
		},
		{
			Algorithm: solver.AlgorithmDP,
			Err:       errors.New("memory error"),
		},
	}

	var buf bytes.Buffer
	PresentComparisonTable(results, &buf)

	out := buf.String()
	if !strings.Contains(out, "Comparison Summary") {
		t.Errorf("output %q should have the summary header", out)
	}
	if !strings.Contains(out, "bit_enum") || !strings.Contains(out, "2ms") {
		t.Errorf("output %q should list the successful row with its duration", out)
	}
	if !strings.Contains(out, "memory error") {
		t.Errorf("output %q should show the failure reason", out)
	}
}

func TestPresentConsistency(t *testing.T) {
	var buf bytes.Buffer
	PresentConsistency(nil, &buf)
	if !strings.Contains(buf.String(), "agree") {
		t.Errorf("output %q should report agreement", buf.String())
	}

	buf.Reset()
	PresentConsistency(errors.New("sets differ"), &buf)
	if !strings.Contains(buf.String(), "sets differ") {
		t.Errorf("output %q should report the mismatch", buf.String())
	}
}
