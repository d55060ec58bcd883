package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agbru/sumcalc/internal/config"
	"github.com/agbru/sumcalc/internal/orchestration"
	"github.com/agbru/sumcalc/internal/ui"
)

// formatDuration renders an elapsed time at a resolution matching its
// magnitude: whole microseconds under a millisecond, whole milliseconds
// under a second, and Go's default notation beyond that.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	default:
		return d.String()
	}
}

// PrintExecutionConfig displays the resolved run parameters before the
// search starts, so a log of the session is self-describing.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sConfiguration:%s %s\n", ui.ColorBold(), ui.ColorReset(), cfg.String())
}

// PresentOutcome displays the solutions of a completed solve. Each solution
// lists the selected values with their 1-based positions, followed by the
// subset sum.
func PresentOutcome(outcome *orchestration.Outcome, numbers []float64, out io.Writer) {
	fmt.Fprintf(out, "\n%sAlgorithm:%s %s (%s backend, %s)\n",
		ui.ColorBold(), ui.ColorReset(), outcome.Algorithm, outcome.Backend,
		formatDuration(outcome.Duration))

	if outcome.Truncated {
		fmt.Fprintf(out, "%s⚠ search space capped: the solution list may be incomplete%s\n",
			ui.ColorWarning(), ui.ColorReset())
	}
	if len(outcome.Solutions) == 0 {
		fmt.Fprintf(out, "%sNo qualifying subset found.%s\n", ui.ColorInfo(), ui.ColorReset())
		return
	}

	fmt.Fprintf(out, "%s%d solution(s) found:%s\n", ui.ColorSuccess(), len(outcome.Solutions), ui.ColorReset())
	for i, sol := range outcome.Solutions {
		sum := 0.0
		fmt.Fprintf(out, "  %s#%d%s ", ui.ColorPrimary(), i+1, ui.ColorReset())
		for j, idx := range sol {
			if j > 0 {
				fmt.Fprint(out, " + ")
			}
			fmt.Fprintf(out, "%.2f[%d]", numbers[idx], idx+1)
			sum += numbers[idx]
		}
		if len(sol) == 0 {
			fmt.Fprint(out, "(empty subset)")
		}
		fmt.Fprintf(out, " = %.2f\n", sum)
	}
}

// PresentComparisonTable displays the comparison summary table with
// algorithm names, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func PresentComparisonTable(results []orchestration.AlgorithmResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	// Find the maximum column widths for proper alignment
	maxNameLen := 9     // "Algorithm" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		if len(res.Algorithm) > maxNameLen {
			maxNameLen = len(res.Algorithm)
		}
		if len(durationCell(res)) > maxDurationLen {
			maxDurationLen = len(durationCell(res))
		}
	}

	// Print header with proper padding
	fmt.Fprintf(out, "%sAlgorithm%s%s   %sDuration%s%s   %sResult%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-9),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	// Print each result row
	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ %v%s", ui.ColorError(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ %d solution(s)%s", ui.ColorSuccess(), len(res.Outcome.Solutions), ui.ColorReset())
			if res.Outcome.Truncated {
				status += fmt.Sprintf(" %s(truncated)%s", ui.ColorWarning(), ui.ColorReset())
			}
		}
		duration := durationCell(res)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorPrimary(), res.Algorithm, ui.ColorReset(), padRight("", maxNameLen-len(res.Algorithm)),
			ui.ColorWarning(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// durationCell renders the duration column for one comparison row.
func durationCell(res orchestration.AlgorithmResult) string {
	if res.Err != nil || res.Outcome == nil {
		return "-"
	}
	if res.Outcome.Duration == 0 {
		return "< 1µs"
	}
	return formatDuration(res.Outcome.Duration)
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentConsistency reports the cross-check verdict of a comparison run.
func PresentConsistency(err error, out io.Writer) {
	if err != nil {
		fmt.Fprintf(out, "\n%sConsistency check failed: %v%s\n", ui.ColorError(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "\n%sAll strategies agree.%s\n", ui.ColorSuccess(), ui.ColorReset())
}
