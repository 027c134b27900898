package track

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
	"github.com/YuminosukeSato/runtrack/pkg/log"
)

// Run is a handle to one tracking run. It owns a path-keyed sink and exposes
// the write operations the observer needs: whole-value set, scalar-series
// append, binary upload, existence check, flush, and stop.
//
// A Run is safe for concurrent use, though the intended call pattern is the
// strictly sequential one of a training loop.
type Run struct {
	id      string
	name    string
	project string

	backend Backend
	logger  log.Logger

	mu      sync.Mutex
	stopped bool
}

type runOptions struct {
	backend Backend
	name    string
	project string
	tags    []string
	logger  log.Logger
	remote  *RemoteConfig
}

// RunOption configures run creation.
type RunOption func(*runOptions)

// WithBackend supplies the sink backend. Defaults to an in-process
// MemoryBackend when neither WithBackend nor WithRemote is given.
func WithBackend(b Backend) RunOption {
	return func(o *runOptions) { o.backend = b }
}

// WithName sets a human-readable run name, recorded under sys/name.
func WithName(name string) RunOption {
	return func(o *runOptions) { o.name = name }
}

// WithProject sets the project the run belongs to, recorded under sys/project.
func WithProject(project string) RunOption {
	return func(o *runOptions) { o.project = project }
}

// WithTags attaches tags to the run, recorded under sys/tags.
func WithTags(tags ...string) RunOption {
	return func(o *runOptions) { o.tags = tags }
}

// WithLogger sets the logger used for write-level debug output.
func WithLogger(l log.Logger) RunOption {
	return func(o *runOptions) { o.logger = l }
}

// WithRemote creates an HTTP RemoteBackend from cfg. Overrides the default
// memory backend; mutually exclusive with WithBackend.
func WithRemote(cfg RemoteConfig) RunOption {
	return func(o *runOptions) { o.remote = &cfg }
}

// NewRun creates a run, assigns it an ID, and records the sys/* metadata.
func NewRun(opts ...RunOption) (*Run, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.backend != nil && o.remote != nil {
		return nil, errors.NewValidationError("backend", "WithBackend and WithRemote are mutually exclusive", nil)
	}
	backend := o.backend
	if o.remote != nil {
		rb, err := NewRemoteBackend(*o.remote)
		if err != nil {
			return nil, err
		}
		backend = rb
	}
	if backend == nil {
		backend = NewMemoryBackend()
	}

	logger := o.logger
	if logger == nil {
		logger = log.Default()
	}

	r := &Run{
		id:      "RUN-" + uuid.NewString(),
		name:    o.name,
		project: o.project,
		backend: backend,
		logger:  logger,
	}

	sys := map[string]any{
		"id":            r.id,
		"creation_time": time.Now().UTC().Format(time.RFC3339),
	}
	if o.name != "" {
		sys["name"] = o.name
	}
	if o.project != "" {
		sys["project"] = o.project
	}
	if len(o.tags) > 0 {
		sys["tags"] = strings.Join(o.tags, ",")
	}
	if err := r.Set("sys", sys); err != nil {
		return nil, errors.Wrap(err, "recording run metadata")
	}

	r.logger.Debug("run created",
		log.RunIDKey, r.id,
		log.BackendKey, backend.Name(),
	)
	return r, nil
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Name returns the run name, which may be empty.
func (r *Run) Name() string { return r.name }

// Namespace returns a Handler that prefixes every operation with base.
// The base is used verbatim; callers normalize trailing separators.
func (r *Run) Namespace(base string) *Handler {
	return &Handler{run: r, prefix: base}
}

func (r *Run) ensureOpen(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return errors.NewRunStoppedError(r.id, op)
	}
	return nil
}

// Set stores value at path. Map values are flattened recursively: a
// map[string]any{"solver": map[string]any{"lr": 0.1}} set at "config"
// becomes a leaf at "config/solver/lr".
func (r *Run) Set(path string, value any) error {
	if err := r.ensureOpen("Set"); err != nil {
		return err
	}
	return r.setFlattened(path, value)
}

func (r *Run) setFlattened(path string, value any) error {
	if m, ok := value.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := r.setFlattened(joinPath(path, k), m[k]); err != nil {
				return err
			}
		}
		return nil
	}
	return r.backend.Set(path, value)
}

// Append adds one point to the scalar series at path.
func (r *Run) Append(path string, value float64) error {
	if err := r.ensureOpen("Append"); err != nil {
		return err
	}
	return r.backend.Append(path, value)
}

// Upload streams the bytes read from rd to the artifact at path.
func (r *Run) Upload(path string, rd io.Reader) error {
	if err := r.ensureOpen("Upload"); err != nil {
		return err
	}
	return r.backend.Upload(path, rd)
}

// Exists reports whether anything is stored at path.
func (r *Run) Exists(path string) (bool, error) {
	if err := r.ensureOpen("Exists"); err != nil {
		return false, err
	}
	return r.backend.Exists(path)
}

// Sync flushes pending writes, leaving the run open.
func (r *Run) Sync() error {
	if err := r.ensureOpen("Sync"); err != nil {
		return err
	}
	return r.backend.Flush()
}

// Stop flushes and closes the run. Further writes fail with RunStoppedError.
// Stopping an already stopped run is a no-op.
func (r *Run) Stop() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	r.mu.Unlock()

	if err := r.backend.Flush(); err != nil {
		return errors.CombineErrors(err, r.backend.Close())
	}
	if err := r.backend.Close(); err != nil {
		return err
	}
	r.logger.Debug("run stopped", log.RunIDKey, r.id)
	return nil
}

// Handler is a namespace view of a Run: every operation is keyed relative to
// the handler's prefix. Handlers are cheap and immutable.
type Handler struct {
	run    *Run
	prefix string
}

// Path returns the absolute sink path for the given relative path.
func (h *Handler) Path(path string) string {
	return joinPath(h.prefix, path)
}

// Namespace returns a nested handler rooted at prefix/sub.
func (h *Handler) Namespace(sub string) *Handler {
	return &Handler{run: h.run, prefix: joinPath(h.prefix, sub)}
}

// Set stores value at the namespaced path.
func (h *Handler) Set(path string, value any) error {
	return h.run.Set(h.Path(path), value)
}

// Append adds one point to the scalar series at the namespaced path.
func (h *Handler) Append(path string, value float64) error {
	return h.run.Append(h.Path(path), value)
}

// Upload streams rd to the artifact at the namespaced path.
func (h *Handler) Upload(path string, rd io.Reader) error {
	return h.run.Upload(h.Path(path), rd)
}

// Exists reports whether anything is stored at the namespaced path.
func (h *Handler) Exists(path string) (bool, error) {
	return h.run.Exists(h.Path(path))
}

// joinPath joins non-empty path elements with a single separator. Elements
// are used verbatim, so a caller-supplied trailing separator survives.
func joinPath(parts ...string) string {
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			elems = append(elems, p)
		}
	}
	return strings.Join(elems, "/")
}
