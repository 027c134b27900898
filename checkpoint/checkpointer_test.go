package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeWeights struct {
	Coef      []float64
	Intercept float64
}

func newTestCheckpointer(t *testing.T, w *fakeWeights) *DirCheckpointer {
	t.Helper()
	ckpt, err := NewDirCheckpointer(t.TempDir(), func() any { return *w })
	if err != nil {
		t.Fatal(err)
	}
	return ckpt
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	weights := &fakeWeights{Coef: []float64{1.5, -2.0}, Intercept: 0.25}
	ckpt := newTestCheckpointer(t, weights)

	if ckpt.Has() {
		t.Error("fresh checkpointer should have no checkpoint")
	}

	if err := ckpt.Save("iter_10"); err != nil {
		t.Fatal(err)
	}
	if !ckpt.Has() {
		t.Fatal("checkpoint should exist after Save")
	}

	path, err := ckpt.Last()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "iter_10.ckpt" {
		t.Errorf("Last() = %q", path)
	}

	var restored fakeWeights
	if err := Load(path, &restored); err != nil {
		t.Fatal(err)
	}
	if restored.Intercept != 0.25 || len(restored.Coef) != 2 {
		t.Errorf("restored = %+v", restored)
	}
}

func TestMarkerTracksMostRecentSave(t *testing.T) {
	weights := &fakeWeights{}
	ckpt := newTestCheckpointer(t, weights)

	if err := ckpt.Save("iter_0"); err != nil {
		t.Fatal(err)
	}
	if err := ckpt.Save("iter_20"); err != nil {
		t.Fatal(err)
	}

	path, err := ckpt.Last()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "iter_20.ckpt" {
		t.Errorf("marker should point at the newest save, got %q", path)
	}
}

func TestHasFalseWhenFileRemoved(t *testing.T) {
	weights := &fakeWeights{}
	ckpt := newTestCheckpointer(t, weights)

	if err := ckpt.Save("iter_5"); err != nil {
		t.Fatal(err)
	}
	path, _ := ckpt.Last()
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ckpt.Has() {
		t.Error("Has should be false once the referenced file is gone")
	}
}

func TestNewDirCheckpointerValidation(t *testing.T) {
	if _, err := NewDirCheckpointer(t.TempDir(), nil); err == nil {
		t.Error("nil source should be rejected")
	}
}
