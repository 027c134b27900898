package track

import "io"

// Backend is the storage side of a Run: a tree-structured store keyed by
// /-separated paths. Implementations must keep append semantics intact
// (appended points are never overwritten) and must tolerate the single
// threaded, strictly sequential call pattern of a training loop without
// requiring it.
type Backend interface {
	// Set stores a whole value at path, replacing any previous value.
	Set(path string, value any) error

	// Append adds one point to the scalar series at path.
	Append(path string, value float64) error

	// Upload stores the bytes read from r as a binary artifact at path.
	// Implementations should consume r incrementally where the transport
	// allows it.
	Upload(path string, r io.Reader) error

	// Exists reports whether anything is stored at path.
	Exists(path string) (bool, error)

	// Flush blocks until previously accepted writes are durable.
	Flush() error

	// Close flushes and releases the backend. Writes after Close fail.
	Close() error

	// Name identifies the backend kind for logging ("memory", "remote").
	Name() string
}
