// Package config defines the application configuration and its resolution
// chain: CLI flags take priority over environment variables, which take
// priority over an optional YAML file, which takes priority over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/solver"
)

// EnvPrefix is prepended to every recognized environment variable.
const EnvPrefix = "SUMCALC_"

// Default configuration values.
const (
	DefaultPrecision = 0.0
	DefaultTimeout   = 5 * time.Minute
	DefaultAddr      = ":8080"
	DefaultLogLevel  = "info"
)

// AppConfig holds the complete resolved application configuration.
type AppConfig struct {
	// InputFile is the path to the numbers file (.txt or .csv).
	InputFile string `yaml:"input"`
	// Numbers holds inline values when no input file is given.
	Numbers []float64 `yaml:"numbers"`
	// Target is the sum to search for.
	Target float64 `yaml:"target"`
	// Precision is the tolerance around the target.
	Precision float64 `yaml:"precision"`
	// FindAll requests an exhaustive search instead of first hit.
	FindAll bool `yaml:"find_all"`
	// Algo names the strategy ("auto", "bit_enum", "meet_middle", "dp",
	// "branch_bound").
	Algo string `yaml:"algo"`
	// Compare runs every strategy and cross-checks the results.
	Compare bool `yaml:"compare"`
	// Workers is the parallelism hint passed to backends. Zero picks a
	// hardware-based default.
	Workers int `yaml:"workers"`
	// Timeout bounds the whole solve.
	Timeout time.Duration `yaml:"timeout"`
	// OutputFile receives the CSV membership matrix when set.
	OutputFile string `yaml:"output"`
	// NativeLib is the path to the accelerated shared library; empty
	// disables the native backend.
	NativeLib string `yaml:"native_lib"`
	// Serve starts the HTTP API instead of a one-shot solve.
	Serve bool `yaml:"serve"`
	// Addr is the HTTP listen address in serve mode.
	Addr string `yaml:"addr"`
	// LogLevel sets the structured log threshold.
	LogLevel string `yaml:"log_level"`
	// Quiet suppresses progress output.
	Quiet bool `yaml:"quiet"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() AppConfig {
	return AppConfig{
		Precision: DefaultPrecision,
		Algo:      string(solver.AlgorithmAuto),
		Timeout:   DefaultTimeout,
		Addr:      DefaultAddr,
		LogLevel:  DefaultLogLevel,
	}
}

// ParseFlags resolves the configuration from command-line arguments,
// environment variables and an optional YAML file. Flag errors and usage
// are written to errWriter.
func ParseFlags(args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("sumcalc", flag.ContinueOnError)
	fs.SetOutput(errWriter)

	configFile := fs.String("config", "", "Path to a YAML configuration file")
	numbersArg := fs.String("numbers", "", "Comma-separated candidate values (alternative to -input)")

	fs.StringVar(&cfg.InputFile, "input", cfg.InputFile, "Path to the numbers file (.txt or .csv)")
	fs.Float64Var(&cfg.Target, "target", cfg.Target, "Target sum to search for")
	fs.Float64Var(&cfg.Precision, "precision", cfg.Precision, "Accepted distance from the target (0 = exact)")
	fs.BoolVar(&cfg.FindAll, "all", cfg.FindAll, "Find every qualifying subset instead of the first")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, "Strategy: auto|bit_enum|meet_middle|dp|branch_bound")
	fs.BoolVar(&cfg.Compare, "compare", cfg.Compare, "Run all strategies and cross-check their results")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallelism hint (0 = auto)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Global timeout for the solve")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Write solutions to this CSV file")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Shorthand for -output")
	fs.StringVar(&cfg.NativeLib, "native-lib", cfg.NativeLib, "Path to the accelerated shared library")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "Start the HTTP API instead of solving once")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address in serve mode")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Suppress progress output")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Shorthand for -quiet")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}

	// File values fill in everything the command line left untouched, so
	// re-apply defaults+file first and flags on top.
	if *configFile != "" {
		fileCfg, err := loadFile(*configFile)
		if err != nil {
			return cfg, err
		}
		mergeUnsetFlags(&cfg, fileCfg, fs)
	}

	applyEnvOverrides(&cfg, fs)

	if *numbersArg != "" {
		nums, err := parseNumbersArg(*numbersArg)
		if err != nil {
			return cfg, err
		}
		cfg.Numbers = nums
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the application cannot act on. Problem
// content (element count, decimal digits) is validated later by the
// loader and engine; this only covers the configuration surface.
func (c *AppConfig) Validate() error {
	if _, err := solver.ParseAlgorithm(c.Algo); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.Precision < 0 {
		return apperrors.NewConfigError("precision must be non-negative, got %g", c.Precision)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be non-negative, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %v", c.Timeout)
	}
	if !c.Serve {
		if c.InputFile == "" && len(c.Numbers) == 0 {
			return apperrors.NewConfigError("no input: provide -input or -numbers")
		}
		if c.InputFile != "" && len(c.Numbers) > 0 {
			return apperrors.NewConfigError("-input and -numbers are mutually exclusive")
		}
	}
	return nil
}

// Algorithm returns the parsed strategy name. Validate must have passed.
func (c *AppConfig) Algorithm() solver.Algorithm {
	algo, _ := solver.ParseAlgorithm(c.Algo)
	return algo
}

// EffectiveWorkers resolves the workers hint, substituting the hardware
// default for zero.
func (c *AppConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers()
}

// loadFile reads a YAML configuration file.
func loadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, apperrors.NewConfigError("reading config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return cfg, nil
}

// mergeUnsetFlags copies file values into cfg for every setting whose flag
// was not given on the command line.
func mergeUnsetFlags(cfg *AppConfig, file AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "input") && file.InputFile != "" {
		cfg.InputFile = file.InputFile
	}
	if len(file.Numbers) > 0 {
		cfg.Numbers = file.Numbers
	}
	if !isFlagSet(fs, "target") && file.Target != 0 {
		cfg.Target = file.Target
	}
	if !isFlagSet(fs, "precision") && file.Precision != 0 {
		cfg.Precision = file.Precision
	}
	if !isFlagSet(fs, "all") && file.FindAll {
		cfg.FindAll = true
	}
	if !isFlagSet(fs, "algo") && file.Algo != "" {
		cfg.Algo = file.Algo
	}
	if !isFlagSet(fs, "compare") && file.Compare {
		cfg.Compare = true
	}
	if !isFlagSet(fs, "workers") && file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if !isFlagSet(fs, "timeout") && file.Timeout != 0 {
		cfg.Timeout = file.Timeout
	}
	if !isFlagSetAny(fs, "output", "o") && file.OutputFile != "" {
		cfg.OutputFile = file.OutputFile
	}
	if !isFlagSet(fs, "native-lib") && file.NativeLib != "" {
		cfg.NativeLib = file.NativeLib
	}
	if !isFlagSet(fs, "serve") && file.Serve {
		cfg.Serve = true
	}
	if !isFlagSet(fs, "addr") && file.Addr != "" {
		cfg.Addr = file.Addr
	}
	if !isFlagSet(fs, "log-level") && file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if !isFlagSetAny(fs, "quiet", "q") && file.Quiet {
		cfg.Quiet = true
	}
}

// parseNumbersArg parses the inline comma-separated numbers flag.
func parseNumbersArg(arg string) ([]float64, error) {
	parts := strings.Split(arg, ",")
	nums := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid number %q in -numbers", part)
		}
		nums = append(nums, v)
	}
	if len(nums) == 0 {
		return nil, apperrors.NewConfigError("-numbers is empty")
	}
	return nums, nil
}

// String renders the resolved configuration for verbose output.
func (c *AppConfig) String() string {
	source := c.InputFile
	if source == "" {
		source = fmt.Sprintf("%d inline values", len(c.Numbers))
	}
	return fmt.Sprintf("input=%s target=%.2f precision=%.2f all=%t algo=%s workers=%d timeout=%v",
		source, c.Target, c.Precision, c.FindAll, c.Algo, c.EffectiveWorkers(), c.Timeout)
}
