package track

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryBackendUpload(t *testing.T) {
	mem := NewMemoryBackend()

	payload := []byte("checkpoint bytes")
	if err := mem.Upload("training/model/checkpoints/checkpoint_final", bytes.NewReader(payload)); err != nil {
		t.Fatal(err)
	}

	blob, ok := mem.Blob("training/model/checkpoints/checkpoint_final")
	if !ok {
		t.Fatal("blob missing")
	}
	if !bytes.Equal(blob, payload) {
		t.Errorf("blob = %q, want %q", blob, payload)
	}
}

func TestMemoryBackendAppendKindMismatch(t *testing.T) {
	mem := NewMemoryBackend()

	if err := mem.Set("config", "value"); err != nil {
		t.Fatal(err)
	}
	err := mem.Append("config", 1.0)
	if err == nil {
		t.Fatal("appending to a whole value should fail, not overwrite")
	}
	if !strings.Contains(err.Error(), "holds a value") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMemoryBackendClose(t *testing.T) {
	mem := NewMemoryBackend()
	if err := mem.Close(); err != nil {
		t.Fatal(err)
	}
	if err := mem.Set("x", 1); err == nil {
		t.Error("write after Close should fail")
	}
	if _, err := mem.Exists("x"); err == nil {
		t.Error("Exists after Close should fail")
	}
}

func TestMemoryBackendPaths(t *testing.T) {
	mem := NewMemoryBackend()
	_ = mem.Set("b", 1)
	_ = mem.Set("a", 1)
	_ = mem.Append("c/series", 1)

	got := mem.Paths()
	want := []string{"a", "b", "c/series"}
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryBackendSeriesReturnsCopy(t *testing.T) {
	mem := NewMemoryBackend()
	_ = mem.Append("loss", 1.0)

	series, _ := mem.Series("loss")
	series[0] = 99

	again, _ := mem.Series("loss")
	if again[0] != 1.0 {
		t.Error("Series must return a copy, not the internal slice")
	}
}
