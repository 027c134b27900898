// Package runtrack provides experiment tracking for Go training loops.
//
// RunTrack mirrors the runtime state of a training run (configuration,
// model summary, scalar metrics, and checkpoint artifacts) into a
// tree-structured tracking sink. The integration point is a single
// lifecycle hook that a training loop drives; RunTrack contains no
// training logic of its own.
//
// # Features
//
// - Lifecycle hook API: one observer, three callbacks, zero scheduling
// - Periodic sampling: metrics and checkpoints logged every Nth step
// - Pluggable sinks: in-memory backend for tests, HTTP backend for a remote service
// - Robust Error Handling: expected-absence conditions are warnings, never crashes
// - Well Tested: table-driven unit tests plus an end-to-end training scenario
//
// # Installation
//
// Install RunTrack using go get:
//
//	go get github.com/YuminosukeSato/runtrack
//
// # Quick Start
//
// Attach an observer to a training loop and let it log every 10th step:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/YuminosukeSato/runtrack/engine"
//	    "github.com/YuminosukeSato/runtrack/events"
//	    "github.com/YuminosukeSato/runtrack/hook"
//	    "github.com/YuminosukeSato/runtrack/track"
//	)
//
//	func main() {
//	    run, err := track.NewRun(track.WithName("demo"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer run.Stop()
//
//	    obs, err := hook.New(
//	        hook.WithRun(run),
//	        hook.WithSamplingPeriod(10),
//	        hook.WithPeriodicCheckpoints(),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    loop := engine.NewLoop(100, func(step int, st *events.Storage) error {
//	        st.Put(step, "loss", trainOneStep())
//	        return nil
//	    })
//	    loop.Register(obs)
//
//	    if err := loop.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The packages compose as follows: track holds the run handle and its
// backends, events stores recent scalar metrics, checkpoint serializes
// model snapshots to local disk, engine defines the training-controller
// contract, and hook ties them together.
package runtrack
