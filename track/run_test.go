package track

import (
	"strings"
	"testing"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

func newTestRun(t *testing.T) (*Run, *MemoryBackend) {
	t.Helper()
	mem := NewMemoryBackend()
	run, err := NewRun(WithBackend(mem), WithName("unit"))
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	return run, mem
}

func TestNewRunRecordsSysMetadata(t *testing.T) {
	mem := NewMemoryBackend()
	run, err := NewRun(
		WithBackend(mem),
		WithName("detector-v2"),
		WithProject("vision"),
		WithTags("baseline", "resnet"),
	)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}

	if !strings.HasPrefix(run.ID(), "RUN-") {
		t.Errorf("run ID %q should carry the RUN- prefix", run.ID())
	}

	id, ok := mem.Value("sys/id")
	if !ok || id != run.ID() {
		t.Errorf("sys/id = %v, want %v", id, run.ID())
	}
	if name, _ := mem.Value("sys/name"); name != "detector-v2" {
		t.Errorf("sys/name = %v", name)
	}
	if project, _ := mem.Value("sys/project"); project != "vision" {
		t.Errorf("sys/project = %v", project)
	}
	if tags, _ := mem.Value("sys/tags"); tags != "baseline,resnet" {
		t.Errorf("sys/tags = %v", tags)
	}
	if _, ok := mem.Value("sys/creation_time"); !ok {
		t.Error("sys/creation_time missing")
	}
}

func TestNewRunRejectsConflictingBackends(t *testing.T) {
	_, err := NewRun(WithBackend(NewMemoryBackend()), WithRemote(RemoteConfig{Endpoint: "http://x"}))
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSetFlattensMaps(t *testing.T) {
	run, mem := newTestRun(t)

	cfg := map[string]any{
		"solver": map[string]any{
			"base_lr":  0.02,
			"max_iter": 90000,
		},
		"output_dir": "/tmp/out",
	}
	if err := run.Set("training/config", cfg); err != nil {
		t.Fatal(err)
	}

	if v, _ := mem.Value("training/config/solver/base_lr"); v != 0.02 {
		t.Errorf("flattened leaf = %v, want 0.02", v)
	}
	if v, _ := mem.Value("training/config/output_dir"); v != "/tmp/out" {
		t.Errorf("flattened leaf = %v, want /tmp/out", v)
	}
}

func TestAppendBuildsSeries(t *testing.T) {
	run, mem := newTestRun(t)

	for _, v := range []float64{0.9, 0.5, 0.25} {
		if err := run.Append("training/metrics/loss", v); err != nil {
			t.Fatal(err)
		}
	}

	series, ok := mem.Series("training/metrics/loss")
	if !ok {
		t.Fatal("series missing")
	}
	want := []float64{0.9, 0.5, 0.25}
	if len(series) != len(want) {
		t.Fatalf("series has %d points, want %d", len(series), len(want))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("series[%d] = %v, want %v", i, series[i], want[i])
		}
	}
}

func TestStopSemantics(t *testing.T) {
	run, _ := newTestRun(t)

	if err := run.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stop is idempotent.
	if err := run.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}

	err := run.Append("training/metrics/loss", 1.0)
	var rse *errors.RunStoppedError
	if !errors.As(err, &rse) {
		t.Fatalf("write after Stop should fail with RunStoppedError, got %v", err)
	}
}

func TestSyncLeavesRunOpen(t *testing.T) {
	run, _ := newTestRun(t)

	if err := run.Sync(); err != nil {
		t.Fatal(err)
	}
	if err := run.Append("training/metrics/loss", 1.0); err != nil {
		t.Errorf("write after Sync should succeed: %v", err)
	}
}

func TestHandlerNamespacing(t *testing.T) {
	run, mem := newTestRun(t)

	base := run.Namespace("training")
	if err := base.Set("model/summary", "Sequential(...)"); err != nil {
		t.Fatal(err)
	}
	if _, ok := mem.Value("training/model/summary"); !ok {
		t.Error("write did not land under the namespace")
	}

	nested := base.Namespace("metrics")
	if got := nested.Path("loss"); got != "training/metrics/loss" {
		t.Errorf("nested path = %q", got)
	}

	ok, err := base.Exists("model/summary")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"training", "config"}, "training/config"},
		{[]string{"", "config"}, "config"},
		{[]string{"training", ""}, "training"},
		{[]string{"training/", "config"}, "training//config"},
	}
	for _, tt := range tests {
		if got := joinPath(tt.parts...); got != tt.want {
			t.Errorf("joinPath(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
