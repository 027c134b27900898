// Package engine defines the training-controller contract that lifecycle
// hooks consume, and a minimal loop driver implementing it.
//
// The Trainer interface makes optional collaborators explicit: each
// capability getter answers with an ok flag instead of relying on interface
// probing, so a hook can ask "is there a checkpoint manager" as a plain
// presence query.
package engine

import (
	"fmt"

	"github.com/YuminosukeSato/runtrack/checkpoint"
	"github.com/YuminosukeSato/runtrack/events"
)

// Version is the engine version string. Integrations record it under the
// fixed source_code/integrations path on the tracking sink.
const Version = "0.4.2"

// Trainer is the view a lifecycle hook gets of the training controller.
// Step is always available; the remaining capabilities may be absent and
// report so through their second return value.
type Trainer interface {
	// Step returns the monotonically increasing step counter.
	Step() int

	// Config returns the training configuration mapping, if the controller
	// has one.
	Config() (map[string]any, bool)

	// Model returns the model being trained, if the controller exposes one.
	// The model's String form is its loggable summary.
	Model() (fmt.Stringer, bool)

	// Checkpointer returns the checkpoint manager, if present.
	Checkpointer() (checkpoint.Checkpointer, bool)

	// Metrics returns the metrics storage the loop writes into, if present.
	Metrics() (*events.Storage, bool)
}

// Hook receives lifecycle callbacks from a training loop. All three are
// invoked on the loop's goroutine, strictly sequentially.
type Hook interface {
	// OnTrainStart is called exactly once, before the first step.
	OnTrainStart(tr Trainer) error

	// OnStepEnd is called after every optimization step.
	OnStepEnd(tr Trainer) error

	// OnTrainEnd is called exactly once after the last step. It runs even
	// when training aborted with an error.
	OnTrainEnd(tr Trainer) error
}
