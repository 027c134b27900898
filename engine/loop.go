package engine

import (
	"context"
	"fmt"

	"github.com/YuminosukeSato/runtrack/checkpoint"
	"github.com/YuminosukeSato/runtrack/events"
	"github.com/YuminosukeSato/runtrack/pkg/errors"
	"github.com/YuminosukeSato/runtrack/pkg/log"
)

// StepFunc performs one optimization step and records its metrics.
type StepFunc func(step int, st *events.Storage) error

// Loop is a minimal synchronous training driver. It owns the step counter
// and the metrics storage, runs the step function from the start step up to
// maxStep-1, and fires registered hooks at the three lifecycle points.
type Loop struct {
	step    int
	maxStep int
	stepFn  StepFunc

	cfg     map[string]any
	model   fmt.Stringer
	ckpt    checkpoint.Checkpointer
	storage *events.Storage
	hooks   []Hook
	logger  log.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithConfig attaches the configuration mapping the Config capability
// reports.
func WithConfig(cfg map[string]any) LoopOption {
	return func(l *Loop) { l.cfg = cfg }
}

// WithModel attaches the model the Model capability reports.
func WithModel(m fmt.Stringer) LoopOption {
	return func(l *Loop) { l.model = m }
}

// WithCheckpointer attaches the checkpoint manager.
func WithCheckpointer(c checkpoint.Checkpointer) LoopOption {
	return func(l *Loop) { l.ckpt = c }
}

// WithStartStep sets the first step (default 0), for resumed runs.
func WithStartStep(step int) LoopOption {
	return func(l *Loop) { l.step = step }
}

// WithLoopLogger sets the loop's logger.
func WithLoopLogger(lg log.Logger) LoopOption {
	return func(l *Loop) { l.logger = lg }
}

// NewLoop creates a loop that will run steps [start, maxStep).
func NewLoop(maxStep int, fn StepFunc, opts ...LoopOption) *Loop {
	l := &Loop{
		maxStep: maxStep,
		stepFn:  fn,
		storage: events.NewStorage(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Register appends hooks; they fire in registration order.
func (l *Loop) Register(hooks ...Hook) {
	l.hooks = append(l.hooks, hooks...)
}

// Step implements Trainer.
func (l *Loop) Step() int { return l.step }

// Config implements Trainer.
func (l *Loop) Config() (map[string]any, bool) {
	return l.cfg, l.cfg != nil
}

// Model implements Trainer.
func (l *Loop) Model() (fmt.Stringer, bool) {
	return l.model, l.model != nil
}

// Checkpointer implements Trainer.
func (l *Loop) Checkpointer() (checkpoint.Checkpointer, bool) {
	return l.ckpt, l.ckpt != nil
}

// Metrics implements Trainer.
func (l *Loop) Metrics() (*events.Storage, bool) {
	return l.storage, true
}

// Run drives training to completion. OnTrainEnd fires even when a step or a
// hook failed, so the sink is flushed with whatever was logged up to the
// failure; its error, if any, is combined with the run error.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		for _, h := range l.hooks {
			if endErr := h.OnTrainEnd(l); endErr != nil {
				err = errors.CombineErrors(err, endErr)
			}
		}
	}()

	for _, h := range l.hooks {
		if err := h.OnTrainStart(l); err != nil {
			return err
		}
	}

	for ; l.step < l.maxStep; l.step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.stepFn(l.step, l.storage); err != nil {
			return errors.Wrapf(err, "engine: step %d", l.step)
		}
		for _, h := range l.hooks {
			if err := h.OnStepEnd(l); err != nil {
				return err
			}
		}
	}

	l.logger.Debug("training finished", log.StepKey, l.step)
	return nil
}
