// Package loader reads candidate numbers from input files and enforces the
// input contract before a problem reaches the engine: supported size range
// and at most two fractional decimal digits per value.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/solver"
)

// Format identifies an input file layout.
type Format string

const (
	// FormatText is one number per line; blank lines and lines starting
	// with '#' are skipped.
	FormatText Format = "txt"
	// FormatCSV is comma-separated values; every field of every record is
	// a number, an optional non-numeric first record is treated as a
	// header.
	FormatCSV Format = "csv"
)

// decimalTolerance absorbs float64 representation noise when checking the
// two-decimal constraint: 2.34 is stored as 2.3399999..., which must pass.
const decimalTolerance = 1e-6

// Load reads numbers from path, inferring the format from the extension.
// Unknown extensions are read as text.
func Load(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening %s", path)
	}
	defer f.Close()

	format := FormatText
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		format = FormatCSV
	}
	nums, err := Read(f, format)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	return nums, nil
}

// Read parses numbers from r in the given format and validates them.
func Read(r io.Reader, format Format) ([]float64, error) {
	var (
		nums []float64
		err  error
	)
	switch format {
	case FormatCSV:
		nums, err = readCSV(r)
	case FormatText, "":
		nums, err = readText(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := ValidateNumbers(nums); err != nil {
		return nil, err
	}
	return nums, nil
}

func readText(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var nums []float64
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, apperrors.NewValidationError("numbers", "line %d: %q is not a number", i+1, field)
			}
			nums = append(nums, v)
		}
	}
	return nums, nil
}

func readCSV(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var nums []float64
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		parsed, ok := parseRecord(record)
		if !ok {
			if first {
				first = false
				continue // header row
			}
			line, _ := reader.FieldPos(0)
			return nil, apperrors.NewValidationError("numbers", "record at line %d contains non-numeric fields", line)
		}
		first = false
		nums = append(nums, parsed...)
	}
	return nums, nil
}

func parseRecord(record []string) ([]float64, bool) {
	var out []float64
	for _, field := range record {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// ValidateNumbers enforces the input contract: supported element count,
// finite values, and at most two fractional decimal digits.
func ValidateNumbers(nums []float64) error {
	if n := len(nums); n < solver.MinNumbers || n > solver.MaxNumbers {
		return apperrors.NewValidationError("numbers",
			"expected between %d and %d values, got %d", solver.MinNumbers, solver.MaxNumbers, n)
	}
	for i, v := range nums {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewValidationError("numbers", "value %d is not finite", i+1)
		}
		scaled := v * solver.ScaleFactor
		if math.Abs(scaled-math.Round(scaled)) > decimalTolerance {
			return apperrors.NewValidationError("numbers",
				"value %d (%g) has more than two decimal places", i+1, v)
		}
	}
	return nil
}
