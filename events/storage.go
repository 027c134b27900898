// Package events maintains recent scalar metric values produced by a
// training loop. The observer queries it on sampled steps for the latest
// smoothed value of every tracked metric.
package events

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

// DefaultHistorySize bounds how many recent points are kept per metric.
const DefaultHistorySize = 1000

type series struct {
	values []float64
	steps  []int
}

func (s *series) put(step int, v float64, limit int) {
	s.values = append(s.values, v)
	s.steps = append(s.steps, step)
	if len(s.values) > limit {
		s.values = s.values[1:]
		s.steps = s.steps[1:]
	}
}

// Storage tracks bounded scalar histories per named metric. It is safe for
// concurrent use; the expected pattern is single-threaded puts from the
// training loop and reads from hooks on the same goroutine.
type Storage struct {
	mu      sync.RWMutex
	history map[string]*series
	order   []string
	limit   int
}

// NewStorage creates a Storage with the default per-metric history size.
func NewStorage() *Storage {
	return NewStorageWithLimit(DefaultHistorySize)
}

// NewStorageWithLimit creates a Storage keeping at most limit points per
// metric.
func NewStorageWithLimit(limit int) *Storage {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &Storage{
		history: make(map[string]*series),
		limit:   limit,
	}
}

// Put records one scalar for the named metric at the given step. Non-finite
// values are recorded as produced, with a warning emitted so the anomaly is
// visible.
func (s *Storage) Put(step int, name string, value float64) {
	errors.CheckScalar(name, step, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.history[name]
	if !ok {
		sr = &series{}
		s.history[name] = sr
		s.order = append(s.order, name)
	}
	sr.put(step, value, s.limit)
}

// PutScalars records several metrics at once for the same step.
func (s *Storage) PutScalars(step int, scalars map[string]float64) {
	names := make([]string, 0, len(scalars))
	for name := range scalars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Put(step, name, scalars[name])
	}
}

// Names returns the tracked metric names in first-seen order.
func (s *Storage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns how many points are currently held for the named metric.
func (s *Storage) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sr, ok := s.history[name]; ok {
		return len(sr.values)
	}
	return 0
}

// History returns copies of the retained steps and values for the named
// metric, oldest first.
func (s *Storage) History(name string) (steps []int, values []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sr, ok := s.history[name]
	if !ok {
		return nil, nil
	}
	steps = make([]int, len(sr.steps))
	copy(steps, sr.steps)
	values = make([]float64, len(sr.values))
	copy(values, sr.values)
	return steps, values
}

// Latest returns the most recent raw value of the named metric.
func (s *Storage) Latest(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sr, ok := s.history[name]
	if !ok || len(sr.values) == 0 {
		return 0, false
	}
	return sr.values[len(sr.values)-1], true
}

// LatestWithSmoothing returns, for every tracked metric, the median of its
// last min(window, len) values. The median is robust against the loss
// spikes a raw last-value read would report.
func (s *Storage) LatestWithSmoothing(window int) map[string]float64 {
	if window < 1 {
		window = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.history))
	for name, sr := range s.history {
		n := len(sr.values)
		if n == 0 {
			continue
		}
		w := window
		if w > n {
			w = n
		}
		tail := make([]float64, w)
		copy(tail, sr.values[n-w:])
		sort.Float64s(tail)
		out[name] = stat.Quantile(0.5, stat.Empirical, tail, nil)
	}
	return out
}
