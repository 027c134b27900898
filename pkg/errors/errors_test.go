package errors

import (
	"math"
	"strings"
	"testing"
)

func TestNewValidationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "non-positive sampling period",
			param:   "sampling_period",
			reason:  "must be greater than zero",
			value:   0,
			wantMsg: "runtrack: validation failed for parameter 'sampling_period': must be greater than zero (got: 0)",
		},
		{
			name:    "nil run handle",
			param:   "run",
			reason:  "must not be nil",
			value:   nil,
			wantMsg: "runtrack: validation failed for parameter 'run': must not be nil (got: <nil>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.param, tt.reason, tt.value)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}

			var ve *ValidationError
			if !As(err, &ve) {
				t.Errorf("expected error chain to contain *ValidationError")
			}
		})
	}
}

func TestNewTypeMismatchError(t *testing.T) {
	err := NewTypeMismatchError("run", "*track.Run", "string")
	want := "runtrack: run should be of type *track.Run, got string"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewRunStoppedError(t *testing.T) {
	err := NewRunStoppedError("RUN-42", "Append")
	if !strings.Contains(err.Error(), "RUN-42") {
		t.Errorf("error message should name the run: %q", err.Error())
	}
	var rse *RunStoppedError
	if !As(err, &rse) {
		t.Fatal("expected error chain to contain *RunStoppedError")
	}
	if rse.Op != "Append" {
		t.Errorf("Op = %q, want %q", rse.Op, "Append")
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer SetWarningHandler(nil)

	Warn(NewCheckpointerAbsentWarning("uploadCheckpoint"))
	Warn(NewCheckpointMissingWarning("/tmp/ckpts"))

	if len(captured) != 2 {
		t.Fatalf("captured %d warnings, want 2", len(captured))
	}
	if !strings.Contains(captured[0].Error(), "checkpointer not present") {
		t.Errorf("unexpected first warning: %v", captured[0])
	}
	if !strings.Contains(captured[1].Error(), "/tmp/ckpts") {
		t.Errorf("second warning should name the save directory: %v", captured[1])
	}
}

func TestCheckScalar(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer SetWarningHandler(nil)

	tests := []struct {
		name     string
		value    float64
		finite   bool
		warnings int
	}{
		{"finite value", 0.125, true, 0},
		{"nan", math.NaN(), false, 1},
		{"positive inf", math.Inf(1), false, 1},
		{"negative inf", math.Inf(-1), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			got := CheckScalar("loss", 7, tt.value)
			if got != tt.finite {
				t.Errorf("CheckScalar() = %v, want %v", got, tt.finite)
			}
			if len(captured) != tt.warnings {
				t.Errorf("emitted %d warnings, want %d", len(captured), tt.warnings)
			}
		})
	}
}
