// Package log defines standard attribute keys for tracking operations.
//
// Using these keys consistently across the run handle, the observer, and the
// backends keeps log output filterable by run, step, and metric. The keys
// follow a hierarchical naming convention (e.g. "run.id", "train.step").
package log

// Run and namespace context.
const (
	// RunIDKey identifies the tracking run receiving writes.
	RunIDKey = "run.id"

	// RunNameKey is the human-readable run name, if one was set.
	RunNameKey = "run.name"

	// NamespaceKey is the base namespace under which the observer writes.
	NamespaceKey = "run.namespace"

	// BackendKey names the sink backend ("memory", "remote").
	BackendKey = "run.backend"
)

// Training lifecycle context.
const (
	// StepKey is the trainer's current step counter.
	StepKey = "train.step"

	// SamplingPeriodKey is the observer's sampling period.
	SamplingPeriodKey = "train.sampling_period"

	// PhaseKey indicates the lifecycle phase: "start", "step", "end".
	PhaseKey = "train.phase"
)

// Metric and artifact context.
const (
	// MetricNameKey names a scalar metric being appended.
	MetricNameKey = "metric.name"

	// MetricValueKey carries the appended scalar value.
	MetricValueKey = "metric.value"

	// PathKey is the sink path a write targets.
	PathKey = "track.path"

	// OperationKey names the sink operation: "set", "append", "upload",
	// "exists", "sync", "stop".
	OperationKey = "track.operation"

	// CheckpointFileKey is the local path of a checkpoint being uploaded.
	CheckpointFileKey = "checkpoint.file"

	// CheckpointFinalKey marks a final (end-of-training) checkpoint upload.
	CheckpointFinalKey = "checkpoint.final"
)

// Performance context.
const (
	// DurationMsKey is the elapsed wall time of an operation in milliseconds.
	DurationMsKey = "duration.ms"

	// BytesKey is the size of an uploaded blob in bytes.
	BytesKey = "data.bytes"
)
