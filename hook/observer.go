// Package hook contains the tracking Observer.
//
// The Observer is a lifecycle hook that mirrors training-run state into a
// track.Run: the engine version and configuration at train start, smoothed
// metric values on every sampled step, and checkpoint artifacts on sampled
// steps or at the end of training. It is passive; the training loop drives
// all three callbacks synchronously.
package hook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YuminosukeSato/runtrack/engine"
	"github.com/YuminosukeSato/runtrack/events"
	"github.com/YuminosukeSato/runtrack/pkg/errors"
	"github.com/YuminosukeSato/runtrack/pkg/log"
	"github.com/YuminosukeSato/runtrack/track"
)

// integrationVersionKey is the fixed path of the one-time integration
// marker. Unlike every other write it is keyed at the run root, outside the
// base namespace.
const integrationVersionKey = "source_code/integrations/go-engine"

// Defaults for construction options.
const (
	DefaultBaseNamespace  = "training"
	DefaultSamplingPeriod = 20
)

// Observer implements engine.Hook. Construct it with New; the zero value is
// not usable.
type Observer struct {
	run     *track.Run
	ownsRun bool
	base    *track.Handler

	period         int
	logModel       bool // upload the final checkpoint at train end
	logCheckpoints bool // upload a checkpoint on every sampled step

	metrics *events.Storage
	logger  log.Logger
}

var _ engine.Hook = (*Observer)(nil)

// New validates the options and builds an Observer. When no run handle is
// supplied the Observer creates one from the run options and owns its
// lifecycle, stopping it at the end of training; a supplied run is only
// synced, its lifecycle stays with the caller.
func New(opts ...Option) (*Observer, error) {
	o := options{
		base:   DefaultBaseNamespace,
		period: DefaultSamplingPeriod,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.period <= 0 {
		return nil, errors.NewValidationError("sampling_period", "must be greater than zero", o.period)
	}
	if o.runSet && o.run == nil {
		return nil, errors.NewValidationError("run", "must not be nil", nil)
	}

	logger := o.logger
	if logger == nil {
		logger = log.Default()
	}

	run := o.run
	ownsRun := false
	if run == nil {
		created, err := track.NewRun(o.runOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "hook: creating run")
		}
		run = created
		ownsRun = true
	}

	// Exactly one trailing separator is stripped.
	base := strings.TrimSuffix(o.base, "/")

	return &Observer{
		run:            run,
		ownsRun:        ownsRun,
		base:           run.Namespace(base),
		period:         o.period,
		logModel:       o.logModel,
		logCheckpoints: o.logCheckpoints,
		metrics:        o.metrics,
		logger: logger.With(
			log.RunIDKey, run.ID(),
			log.NamespaceKey, base,
		),
	}, nil
}

// Run returns the underlying run handle.
func (o *Observer) Run() *track.Run { return o.run }

// OnTrainStart records the engine version at the fixed integration path and,
// when the trainer exposes them, the configuration mapping and the model
// summary under the base namespace. The three writes are independent: an
// absent config does not prevent the model summary from being logged.
func (o *Observer) OnTrainStart(tr engine.Trainer) (err error) {
	defer errors.Recover(&err, "OnTrainStart")

	if err := o.run.Set(integrationVersionKey, engine.Version); err != nil {
		return err
	}
	if err := o.logConfig(tr); err != nil {
		return err
	}
	return o.logModelSummary(tr)
}

// OnStepEnd applies the sampling gate: nothing happens unless the trainer's
// step counter is a multiple of the sampling period. On sampled steps the
// latest smoothed value of every tracked metric is appended, and, when
// periodic checkpoint upload is enabled, a checkpoint is uploaded tagged
// with the current step.
func (o *Observer) OnStepEnd(tr engine.Trainer) (err error) {
	defer errors.Recover(&err, "OnStepEnd")

	if tr.Step()%o.period != 0 {
		return nil
	}

	if err := o.logMetrics(tr); err != nil {
		return err
	}

	if o.logCheckpoints {
		if _, err := o.uploadCheckpoint(tr, false); err != nil {
			return err
		}
	}
	return nil
}

// OnTrainEnd optionally uploads the final checkpoint, then finalizes the
// sink: an owned run is stopped, a caller-supplied run is only synced and
// left open.
func (o *Observer) OnTrainEnd(tr engine.Trainer) (err error) {
	defer errors.Recover(&err, "OnTrainEnd")

	if o.logModel {
		if _, err := o.uploadCheckpoint(tr, true); err != nil {
			return err
		}
	}

	if o.ownsRun {
		return o.run.Stop()
	}
	return o.run.Sync()
}

func (o *Observer) logConfig(tr engine.Trainer) error {
	cfg, ok := tr.Config()
	if !ok {
		return nil
	}
	return o.base.Set("config", cfg)
}

func (o *Observer) logModelSummary(tr engine.Trainer) error {
	model, ok := tr.Model()
	if !ok {
		return nil
	}
	return o.base.Set("model/summary", model.String())
}

func (o *Observer) logMetrics(tr engine.Trainer) error {
	st, ok := o.resolveMetrics(tr)
	if !ok {
		o.logger.Debug("no metrics storage available",
			log.StepKey, tr.Step(),
		)
		return nil
	}

	latest := st.LatestWithSmoothing(o.period)
	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := o.base.Append(joinMetricPath(name), latest[name]); err != nil {
			return err
		}
	}
	return nil
}

// resolveMetrics prefers explicitly injected storage, falling back to the
// trainer's Metrics capability.
func (o *Observer) resolveMetrics(tr engine.Trainer) (*events.Storage, bool) {
	if o.metrics != nil {
		return o.metrics, true
	}
	return tr.Metrics()
}

func joinMetricPath(name string) string {
	return fmt.Sprintf("metrics/%s", name)
}
