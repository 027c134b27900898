package track

import (
	"io"
	"sort"
	"sync"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

type entryKind int

const (
	kindValue entryKind = iota
	kindSeries
	kindBlob
)

func (k entryKind) String() string {
	switch k {
	case kindValue:
		return "value"
	case kindSeries:
		return "series"
	case kindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

type memEntry struct {
	kind   entryKind
	value  any
	series []float64
	blob   []byte
}

// MemoryBackend is an in-process Backend. It is the default sink for new
// runs and the workhorse of the test suite: everything written can be read
// back through Value, Series, Blob, and Paths.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	closed  bool
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]*memEntry)}
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) ensureOpen(op string) error {
	if m.closed {
		return errors.NewValueError(op, "backend is closed")
	}
	return nil
}

// Set implements Backend. Setting replaces whatever was stored at path.
func (m *MemoryBackend) Set(path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen("Set"); err != nil {
		return err
	}
	m.entries[path] = &memEntry{kind: kindValue, value: value}
	return nil
}

// Append implements Backend. The series at path grows by one point; an
// existing non-series entry at path is an error, never an overwrite.
func (m *MemoryBackend) Append(path string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen("Append"); err != nil {
		return err
	}
	e, ok := m.entries[path]
	if !ok {
		e = &memEntry{kind: kindSeries}
		m.entries[path] = e
	}
	if e.kind != kindSeries {
		return errors.Newf("track: cannot append to %q: holds a %s", path, e.kind)
	}
	e.series = append(e.series, value)
	return nil
}

// Upload implements Backend. The reader is drained into memory.
func (m *MemoryBackend) Upload(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "track: reading upload for %q", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen("Upload"); err != nil {
		return err
	}
	m.entries[path] = &memEntry{kind: kindBlob, blob: data}
	return nil
}

// Exists implements Backend.
func (m *MemoryBackend) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.ensureOpen("Exists"); err != nil {
		return false, err
	}
	_, ok := m.entries[path]
	return ok, nil
}

// Flush implements Backend. Writes are stored synchronously, so there is
// nothing to flush.
func (m *MemoryBackend) Flush() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ensureOpen("Flush")
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Value returns the whole value stored at path, if any.
func (m *MemoryBackend) Value(path string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[path]
	if !ok || e.kind != kindValue {
		return nil, false
	}
	return e.value, true
}

// Series returns a copy of the scalar series stored at path, if any.
func (m *MemoryBackend) Series(path string) ([]float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[path]
	if !ok || e.kind != kindSeries {
		return nil, false
	}
	out := make([]float64, len(e.series))
	copy(out, e.series)
	return out, true
}

// Blob returns the binary artifact stored at path, if any.
func (m *MemoryBackend) Blob(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[path]
	if !ok || e.kind != kindBlob {
		return nil, false
	}
	return e.blob, true
}

// Paths returns every stored path in sorted order.
func (m *MemoryBackend) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
