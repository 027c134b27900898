package hook

import (
	"github.com/YuminosukeSato/runtrack/events"
	"github.com/YuminosukeSato/runtrack/pkg/log"
	"github.com/YuminosukeSato/runtrack/track"
)

type options struct {
	run    *track.Run
	runSet bool

	base   string
	period int

	logModel       bool
	logCheckpoints bool

	metrics *events.Storage
	logger  log.Logger
	runOpts []track.RunOption
}

// Option configures the Observer at construction time.
type Option func(*options)

// WithRun attaches an existing run handle instead of creating one. The
// caller keeps ownership: the Observer syncs the run at the end of training
// but never stops it. Passing nil is a construction error.
func WithRun(run *track.Run) Option {
	return func(o *options) {
		o.run = run
		o.runSet = true
	}
}

// WithBaseNamespace sets the root path for all writes except the
// integration-version marker. Default "training". One trailing separator,
// if present, is stripped.
func WithBaseNamespace(base string) Option {
	return func(o *options) { o.base = base }
}

// WithSamplingPeriod sets the step interval for metric and checkpoint
// logging, which doubles as the metric smoothing window. Default 20; must
// be greater than zero.
func WithSamplingPeriod(period int) Option {
	return func(o *options) { o.period = period }
}

// WithFinalCheckpoint enables a single checkpoint upload at the end of
// training, stored as model/checkpoints/checkpoint_final.
func WithFinalCheckpoint() Option {
	return func(o *options) { o.logModel = true }
}

// WithPeriodicCheckpoints enables a checkpoint upload on every sampled
// step, stored as model/checkpoints/checkpoint_iter_<step>.
func WithPeriodicCheckpoints() Option {
	return func(o *options) { o.logCheckpoints = true }
}

// WithMetrics injects the metrics storage to query on sampled steps. When
// absent, the Observer falls back to the trainer's Metrics capability.
func WithMetrics(st *events.Storage) Option {
	return func(o *options) { o.metrics = st }
}

// WithLogger sets the Observer's logger.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRunOptions forwards creation options verbatim to track.NewRun when no
// run handle was supplied. Ignored when WithRun is used.
func WithRunOptions(opts ...track.RunOption) Option {
	return func(o *options) { o.runOpts = append(o.runOpts, opts...) }
}
