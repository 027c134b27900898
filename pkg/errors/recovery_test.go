package errors

import (
	"strings"
	"testing"
)

func TestRecoverConvertsPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "OnStepEnd")
		panic("sink exploded")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var pe *PanicError
	if !As(err, &pe) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if pe.Operation != "OnStepEnd" {
		t.Errorf("Operation = %q, want %q", pe.Operation, "OnStepEnd")
	}
	if pe.StackTrace == "" {
		t.Error("expected a captured stack trace")
	}
}

func TestRecoverWrapsExistingError(t *testing.T) {
	base := New("upload failed")
	fn := func() (err error) {
		defer Recover(&err, "uploadCheckpoint")
		err = base
		panic("and then it panicked")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected error")
	}
	if !Is(err, base) {
		t.Error("original error should remain in the chain")
	}
	if !strings.Contains(err.Error(), "uploadCheckpoint") {
		t.Errorf("error should name the operation: %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{"no error", func() error { return nil }, false},
		{"plain error", func() error { return New("boom") }, true},
		{"panic", func() error { panic("boom") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute(tt.name, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeExecute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
