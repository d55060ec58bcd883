// Package export renders solve results to files for use outside the tool.
//
// The CSV layout is a membership matrix: one row per input number, one
// column per solution, with the value repeated in the cells of the
// solutions that contain it. Two summary rows carry each solution's sum
// and its distance from the target, so a spreadsheet user can audit the
// result without re-adding columns by hand.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/solver"
)

// WriteCSV writes the membership matrix for solutions over numbers.
func WriteCSV(w io.Writer, numbers []float64, target float64, solutions []solver.Solution) error {
	cw := csv.NewWriter(w)

	header := make([]string, 2, 2+len(solutions))
	header[0] = "index"
	header[1] = "value"
	for i := range solutions {
		header = append(header, fmt.Sprintf("solution %d", i+1))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	membership := make([]map[int]bool, len(solutions))
	sums := make([]float64, len(solutions))
	for s, sol := range solutions {
		membership[s] = make(map[int]bool, len(sol))
		for _, idx := range sol {
			membership[s][idx] = true
			sums[s] += numbers[idx]
		}
	}

	for i, v := range numbers {
		row := make([]string, 2, 2+len(solutions))
		row[0] = strconv.Itoa(i + 1)
		row[1] = formatAmount(v)
		for s := range solutions {
			if membership[s][i] {
				row = append(row, formatAmount(v))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	sumRow := []string{"", "sum"}
	deltaRow := []string{"", "target delta"}
	for _, sum := range sums {
		sumRow = append(sumRow, formatAmount(sum))
		deltaRow = append(deltaRow, formatAmount(math.Abs(sum-target)))
	}
	if err := cw.Write(sumRow); err != nil {
		return err
	}
	if err := cw.Write(deltaRow); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the membership matrix to a file, creating or truncating
// it.
func SaveCSV(path string, numbers []float64, target float64, solutions []solver.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "creating %s", path)
	}
	if err := WriteCSV(f, numbers, target, solutions); err != nil {
		f.Close()
		return apperrors.WrapError(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return apperrors.WrapError(err, "closing %s", path)
	}
	return nil
}

// formatAmount renders a value with the fixed two-decimal input resolution.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
