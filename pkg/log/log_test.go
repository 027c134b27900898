package log

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestTestLoggerCapturesFields(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	logger.Info("metric appended",
		MetricNameKey, "loss",
		StepKey, 40,
	)

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0][MetricNameKey] != "loss" {
		t.Errorf("metric.name = %v, want loss", entries[0][MetricNameKey])
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, buffer := NewTestLogger(LevelWarn)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	if logger.ContainsMessage("dropped") {
		t.Error("messages below the minimum level should not be captured")
	}
	if !logger.ContainsMessage("kept") {
		t.Errorf("warn/error messages missing from output: %s", buffer.String())
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(RunIDKey, "RUN-7")

	child.Info("observer attached")

	if !logger.ContainsField(RunIDKey, "RUN-7") {
		t.Error("pre-populated field missing from child logger output")
	}
}

func TestExtractStacktrace(t *testing.T) {
	err := errors.New("upload failed")
	if extractStacktrace(err) == "" {
		t.Error("cockroachdb error should yield a stacktrace")
	}

	if got := extractStacktrace(context.Canceled); got != "" {
		t.Errorf("plain error should yield no stacktrace, got %q", got)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
