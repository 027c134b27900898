// Package checkpoint saves and locates local model snapshots.
//
// The serialization format is gob; the observer treats checkpoints as opaque
// files and only needs Save, existence, and the most recent file path.
package checkpoint

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

// markerFile names the file recording the most recent checkpoint, following
// the usual last_checkpoint convention of detection frameworks.
const markerFile = "last_checkpoint"

// Checkpointer is the capability set the observer requires from a
// checkpoint manager.
type Checkpointer interface {
	// Save writes a snapshot under the given name.
	Save(name string) error

	// Has reports whether a checkpoint file currently exists.
	Has() bool

	// Last returns the local path of the most recent checkpoint file.
	Last() (string, error)

	// Dir returns the local save directory, used in warnings.
	Dir() string
}

// DirCheckpointer serializes snapshots into a directory, one gob file per
// save, and tracks the most recent one through a marker file.
type DirCheckpointer struct {
	dir    string
	source func() any
}

// NewDirCheckpointer creates the save directory if needed. The source
// function produces the snapshot value to serialize on each Save; the value
// must be gob-encodable.
func NewDirCheckpointer(dir string, source func() any) (*DirCheckpointer, error) {
	if source == nil {
		return nil, errors.NewValidationError("source", "must not be nil", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating checkpoint directory %q", dir)
	}
	return &DirCheckpointer{dir: dir, source: source}, nil
}

// Dir implements Checkpointer.
func (c *DirCheckpointer) Dir() string { return c.dir }

// Save implements Checkpointer. The snapshot is written to <dir>/<name>.ckpt
// and the marker file is rewritten to point at it.
func (c *DirCheckpointer) Save(name string) error {
	filename := name + ".ckpt"
	path := filepath.Join(c.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating checkpoint file %q", path)
	}

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.source()); err != nil {
		file.Close()
		return errors.Wrapf(err, "encoding checkpoint %q", name)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "closing checkpoint file %q", path)
	}

	marker := filepath.Join(c.dir, markerFile)
	if err := os.WriteFile(marker, []byte(filename), 0o644); err != nil {
		return errors.Wrapf(err, "updating %s", markerFile)
	}
	return nil
}

// Has implements Checkpointer. Both the marker and the file it names must
// exist.
func (c *DirCheckpointer) Has() bool {
	path, err := c.Last()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Last implements Checkpointer.
func (c *DirCheckpointer) Last() (string, error) {
	marker := filepath.Join(c.dir, markerFile)
	data, err := os.ReadFile(marker)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", markerFile)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", errors.Newf("checkpoint: %s is empty", markerFile)
	}
	return filepath.Join(c.dir, name), nil
}

// Load decodes a checkpoint file into target, which must be a pointer to a
// value of the type that was saved.
func Load(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening checkpoint file %q", path)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(target); err != nil {
		return errors.Wrapf(err, "decoding checkpoint %q", path)
	}
	return nil
}
