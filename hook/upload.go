package hook

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/runtrack/engine"
	"github.com/YuminosukeSato/runtrack/pkg/errors"
	"github.com/YuminosukeSato/runtrack/pkg/log"
)

// UploadStatus reports how a checkpoint upload attempt ended. The skip
// statuses are expected conditions and surface as warnings, never as
// errors; training proceeds normally.
type UploadStatus int

const (
	// UploadFailed marks an attempt that ended in a hard error.
	UploadFailed UploadStatus = iota

	// UploadOK marks a completed upload; the local file has been removed.
	UploadOK

	// SkippedNoCheckpointer: the trainer exposes no checkpoint manager.
	SkippedNoCheckpointer

	// SkippedNoCheckpointFile: the checkpoint manager has no checkpoint
	// file in its save directory.
	SkippedNoCheckpointFile
)

// String returns the status name.
func (s UploadStatus) String() string {
	switch s {
	case UploadOK:
		return "ok"
	case SkippedNoCheckpointer:
		return "skipped_no_checkpointer"
	case SkippedNoCheckpointFile:
		return "skipped_no_checkpoint_file"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// uploadCheckpoint saves a snapshot through the trainer's checkpoint
// manager and streams the resulting file to the sink, tagged with the
// current step or as final. On success the local file is removed; the
// remote copy is authoritative from then on. On upload failure the local
// file is deliberately left in place.
func (o *Observer) uploadCheckpoint(tr engine.Trainer, final bool) (UploadStatus, error) {
	ckpt, ok := tr.Checkpointer()
	if !ok {
		errors.Warn(errors.NewCheckpointerAbsentWarning("uploadCheckpoint"))
		return SkippedNoCheckpointer, nil
	}

	step := tr.Step()
	if err := ckpt.Save(fmt.Sprintf("iter_%d", step)); err != nil {
		return UploadFailed, errors.Wrap(err, "hook: saving checkpoint")
	}

	target := "model/checkpoints/checkpoint_final"
	if !final {
		target = fmt.Sprintf("model/checkpoints/checkpoint_iter_%d", step)
	}

	if !ckpt.Has() {
		errors.Warn(errors.NewCheckpointMissingWarning(ckpt.Dir()))
		return SkippedNoCheckpointFile, nil
	}

	local, err := ckpt.Last()
	if err != nil {
		return UploadFailed, errors.Wrap(err, "hook: locating checkpoint file")
	}

	if err := o.streamFile(target, local); err != nil {
		// Keep the local file so a copy survives the failed upload.
		return UploadFailed, err
	}
	if err := os.Remove(local); err != nil {
		return UploadFailed, errors.Wrapf(err, "hook: removing uploaded checkpoint %q", local)
	}

	o.logger.Debug("checkpoint uploaded",
		log.StepKey, step,
		log.PathKey, target,
		log.CheckpointFileKey, local,
		log.CheckpointFinalKey, final,
	)
	return UploadOK, nil
}

// streamFile uploads the file's bytes to the sink under the base namespace.
// The file handle is scoped here and closed before the caller removes the
// file.
func (o *Observer) streamFile(target, local string) error {
	f, err := os.Open(local)
	if err != nil {
		return errors.Wrapf(err, "hook: opening checkpoint file %q", local)
	}
	defer f.Close()

	return o.base.Upload(target, f)
}
