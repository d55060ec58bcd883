package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	t.Run("String creates field with key and string value", func(t *testing.T) {
		f := String("key", "value")
		if f.Key != "key" {
			t.Errorf("String().Key = %q, want %q", f.Key, "key")
		}
		if f.Value != "value" {
			t.Errorf("String().Value = %q, want %q", f.Value, "value")
		}
	})

	t.Run("Int creates field with key and int value", func(t *testing.T) {
		f := Int("count", 42)
		if f.Key != "count" {
			t.Errorf("Int().Key = %q, want %q", f.Key, "count")
		}
		if f.Value != 42 {
			t.Errorf("Int().Value = %v, want %v", f.Value, 42)
		}
	})

	t.Run("Int64 creates field with key and int64 value", func(t *testing.T) {
		f := Int64("sum", -1234567890123)
		if f.Key != "sum" {
			t.Errorf("Int64().Key = %q, want %q", f.Key, "sum")
		}
		if f.Value != int64(-1234567890123) {
			t.Errorf("Int64().Value = %v, want %v", f.Value, int64(-1234567890123))
		}
	})

	t.Run("Uint64 creates field with key and uint64 value", func(t *testing.T) {
		f := Uint64("bytes", 12345678901234567890)
		if f.Key != "bytes" {
			t.Errorf("Uint64().Key = %q, want %q", f.Key, "bytes")
		}
		if f.Value != uint64(12345678901234567890) {
			t.Errorf("Uint64().Value = %v, want %v", f.Value, uint64(12345678901234567890))
		}
	})

	t.Run("Float64 creates field with key and float64 value", func(t *testing.T) {
		f := Float64("target", 3.14159)
		if f.Key != "target" {
			t.Errorf("Float64().Key = %q, want %q", f.Key, "target")
		}
		if f.Value != 3.14159 {
			t.Errorf("Float64().Value = %v, want %v", f.Value, 3.14159)
		}
	})

	t.Run("Duration creates field with duration value", func(t *testing.T) {
		f := Duration("elapsed", 250*time.Millisecond)
		if f.Key != "elapsed" {
			t.Errorf("Duration().Key = %q, want %q", f.Key, "elapsed")
		}
		if f.Value != 250*time.Millisecond {
			t.Errorf("Duration().Value = %v, want %v", f.Value, 250*time.Millisecond)
		}
	})

	t.Run("Err creates field with error key", func(t *testing.T) {
		testErr := errors.New("test error")
		f := Err(testErr)
		if f.Key != "error" {
			t.Errorf("Err().Key = %q, want %q", f.Key, "error")
		}
		if f.Value != testErr {
			t.Errorf("Err().Value = %v, want %v", f.Value, testErr)
		}
	})
}

// TestZerologAdapter_Emit verifies fields land in the JSON output with their
// native zerolog encodings.
func TestZerologAdapter_Emit(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := NewZerologAdapter(zl)

	logger.Info("solve finished",
		String("algorithm", "bit_enum"),
		Int("solutions", 3),
		Bool("truncated", false),
		Float64("target", 9.5),
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"solve finished"`,
		`"algorithm":"bit_enum"`,
		`"solutions":3`,
		`"truncated":false`,
		`"target":9.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

// TestZerologAdapter_WithComponent verifies derived loggers carry the
// component tag.
func TestZerologAdapter_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf)).WithComponent("engine")

	logger.Warn("native backend unavailable")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("output %q missing component tag", buf.String())
	}
}

// TestNew_LevelFiltering verifies level parsing and filtering.
func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn entry should be emitted at warn level")
	}
}

// TestNew_UnknownLevelDefaultsToInfo verifies the fallback level.
func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "nonsense")

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at default info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info entry should be emitted at default info level")
	}
}

// TestNewNop verifies the no-op logger discards output without panicking.
func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Debug("a")
	logger.Info("b", Err(errors.New("x")))
	logger.Warn("c")
	logger.Error("d")
}
