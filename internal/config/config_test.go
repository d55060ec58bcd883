package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/agbru/sumcalc/internal/errors"
	"github.com/agbru/sumcalc/internal/solver"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags([]string{"-numbers", "1,2,3", "-target", "6"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Algo != string(solver.AlgorithmAuto) {
		t.Errorf("Algo = %q, want auto", cfg.Algo)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Target != 6 {
		t.Errorf("Target = %v, want 6", cfg.Target)
	}
	if len(cfg.Numbers) != 3 {
		t.Errorf("Numbers = %v, want three values", cfg.Numbers)
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-input", "data.csv",
		"-target", "100.50",
		"-precision", "0.05",
		"-all",
		"-algo", "dp",
		"-workers", "4",
		"-timeout", "30s",
		"-o", "out.csv",
		"-quiet",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.InputFile != "data.csv" || cfg.Target != 100.50 || cfg.Precision != 0.05 {
		t.Errorf("problem fields not parsed: %+v", cfg)
	}
	if !cfg.FindAll || cfg.Algo != "dp" || cfg.Workers != 4 {
		t.Errorf("search fields not parsed: %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second || cfg.OutputFile != "out.csv" || !cfg.Quiet {
		t.Errorf("auxiliary fields not parsed: %+v", cfg)
	}
}

func TestParseFlags_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown algorithm", []string{"-numbers", "1,2", "-algo", "quantum"}},
		{"negative precision", []string{"-numbers", "1,2", "-precision", "-0.1"}},
		{"negative workers", []string{"-numbers", "1,2", "-workers", "-2"}},
		{"no input", []string{"-target", "5"}},
		{"conflicting inputs", []string{"-input", "a.txt", "-numbers", "1,2"}},
		{"bad inline number", []string{"-numbers", "1,abc"}},
		{"zero timeout", []string{"-numbers", "1,2", "-timeout", "0s"}},
		{"unknown flag", []string{"-frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args, io.Discard)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("ParseFlags(%v) error = %v, want ConfigError", tt.args, err)
			}
		})
	}
}

func TestParseFlags_ServeNeedsNoInput(t *testing.T) {
	cfg, err := ParseFlags([]string{"-serve", "-addr", ":9090"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if !cfg.Serve || cfg.Addr != ":9090" {
		t.Errorf("serve config not parsed: %+v", cfg)
	}
}

func TestParseFlags_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"ALGO", "meet_middle")
	t.Setenv(EnvPrefix+"TIMEOUT", "90s")
	t.Setenv(EnvPrefix+"ALL", "yes")

	cfg, err := ParseFlags([]string{"-numbers", "1,2,3", "-target", "3"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Algo != "meet_middle" {
		t.Errorf("Algo = %q, want env override", cfg.Algo)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if !cfg.FindAll {
		t.Error("FindAll should be set from SUMCALC_ALL=yes")
	}
}

func TestParseFlags_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"ALGO", "dp")

	cfg, err := ParseFlags([]string{"-numbers", "1,2", "-algo", "bit_enum"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Algo != "bit_enum" {
		t.Errorf("Algo = %q, explicit flag must win over environment", cfg.Algo)
	}
}

func TestParseFlags_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
target: 42.5
precision: 0.25
find_all: true
algo: branch_bound
numbers: [1, 2, 3, 4]
timeout: 45s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-config", path}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Target != 42.5 || cfg.Precision != 0.25 || !cfg.FindAll {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Algo != "branch_bound" || len(cfg.Numbers) != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s from file", cfg.Timeout)
	}
}

func TestParseFlags_FlagBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("algo: dp\nnumbers: [1, 2]\ntarget: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-config", path, "-algo", "meet_middle"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Algo != "meet_middle" {
		t.Errorf("Algo = %q, explicit flag must win over file", cfg.Algo)
	}
}

func TestParseFlags_MissingConfigFile(t *testing.T) {
	_, err := ParseFlags([]string{"-config", "/nonexistent.yaml", "-numbers", "1"}, io.Discard)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("ParseFlags() error = %v, want ConfigError", err)
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := AppConfig{Workers: 3}
	if cfg.EffectiveWorkers() != 3 {
		t.Errorf("EffectiveWorkers() = %d, want explicit 3", cfg.EffectiveWorkers())
	}
	cfg.Workers = 0
	if cfg.EffectiveWorkers() < 1 {
		t.Errorf("EffectiveWorkers() = %d, want at least 1", cfg.EffectiveWorkers())
	}
}

func TestDefaultWorkers(t *testing.T) {
	if w := DefaultWorkers(); w < 1 || w > 8 {
		t.Errorf("DefaultWorkers() = %d, want within [1, 8]", w)
	}
}
