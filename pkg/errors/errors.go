// Package errors provides error handling and the warning system for RunTrack.
// Expected-absence conditions around checkpoint upload are surfaced as
// warnings through a replaceable handler; everything else is a structured
// error carrying a stacktrace.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("runtrack-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid a circular import with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
// Logging infrastructure must never abort training, so skipped checkpoint
// uploads and similar conditions go through this channel instead of being
// returned as errors.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop all warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings to a zerolog logger. When set it takes
// precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a non-fatal warning.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types (expected-absence conditions)
//
// ===========================================================================

// CheckpointerAbsentWarning is emitted when a checkpoint upload was requested
// but the trainer exposes no checkpoint manager. The upload is skipped and
// training continues.
type CheckpointerAbsentWarning struct {
	Op string
}

func (w *CheckpointerAbsentWarning) Error() string {
	return fmt.Sprintf("%s: checkpointer not present for the current trainer, skipping checkpoint upload", w.Op)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *CheckpointerAbsentWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("type", "CheckpointerAbsentWarning")
}

// NewCheckpointerAbsentWarning creates a new CheckpointerAbsentWarning.
func NewCheckpointerAbsentWarning(op string) *CheckpointerAbsentWarning {
	return &CheckpointerAbsentWarning{Op: op}
}

// CheckpointMissingWarning is emitted when the checkpoint manager reports
// that no checkpoint file exists in its save directory at upload time.
type CheckpointMissingWarning struct {
	Dir string
}

func (w *CheckpointMissingWarning) Error() string {
	return fmt.Sprintf("no checkpoint file present in %q, skipping checkpoint upload", w.Dir)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *CheckpointMissingWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("dir", w.Dir).
		Str("type", "CheckpointMissingWarning")
}

// NewCheckpointMissingWarning creates a new CheckpointMissingWarning.
func NewCheckpointMissingWarning(dir string) *CheckpointMissingWarning {
	return &CheckpointMissingWarning{Dir: dir}
}

// NonFiniteMetricWarning is emitted when a NaN or infinite scalar is recorded
// for a metric. The value is still stored; the warning surfaces the anomaly.
type NonFiniteMetricWarning struct {
	Metric string
	Step   int
	Value  float64
}

func (w *NonFiniteMetricWarning) Error() string {
	return fmt.Sprintf("metric %q received non-finite value %v at step %d", w.Metric, w.Value, w.Step)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *NonFiniteMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Int("step", w.Step).
		Float64("value", w.Value).
		Str("type", "NonFiniteMetricWarning")
}

// NewNonFiniteMetricWarning creates a new NonFiniteMetricWarning.
func NewNonFiniteMetricWarning(metric string, step int, value float64) *NonFiniteMetricWarning {
	return &NonFiniteMetricWarning{Metric: metric, Step: step, Value: value}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// ValidationError reports an invalid construction or call parameter, such as
// a non-positive sampling period.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("runtrack: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stacktrace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// TypeMismatchError reports a collaborator that does not satisfy the
// capability set an operation requires.
type TypeMismatchError struct {
	Param    string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("runtrack: %s should be of type %s, got %s", e.Param, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *TypeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "TypeMismatchError")
}

// NewTypeMismatchError creates a TypeMismatchError with a stacktrace attached.
func NewTypeMismatchError(param, expected, got string) error {
	err := &TypeMismatchError{Param: param, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// RunStoppedError reports a write attempted on a run handle after Stop.
type RunStoppedError struct {
	RunID string
	Op    string
}

func (e *RunStoppedError) Error() string {
	return fmt.Sprintf("runtrack: %s: run %s is already stopped", e.Op, e.RunID)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *RunStoppedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("run_id", e.RunID).
		Str("operation", e.Op).
		Str("type", "RunStoppedError")
}

// NewRunStoppedError creates a RunStoppedError with a stacktrace attached.
func NewRunStoppedError(runID, op string) error {
	err := &RunStoppedError{RunID: runID, Op: op}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unusable for an operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("runtrack: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stacktrace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Helpers re-exported from cockroachdb/errors
//
// ===========================================================================

// Wrap annotates err with a message, preserving the original stacktrace.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stacktrace.
func New(msg string) error {
	return errors.New(msg)
}

// Newf creates a new formatted error with a stacktrace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// CombineErrors returns the combination of two errors, keeping the first as
// the main cause.
func CombineErrors(err, other error) error {
	return errors.CombineErrors(err, other)
}
