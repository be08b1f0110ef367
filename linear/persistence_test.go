package linear

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestClassifierSaveLoad(t *testing.T) {
	X, y := separableData()

	clf := NewClassifier(WithMaxIter(200), WithRandomState(42))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "classifier.gob")
	if err := clf.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewClassifier()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !loaded.IsFitted() {
		t.Error("loaded classifier should be fitted")
	}
	if loaded.NFeatures != clf.NFeatures || loaded.Intercept != clf.Intercept {
		t.Errorf("loaded state differs: %+v vs %+v", loaded, clf)
	}
	for j := range clf.Coef {
		if loaded.Coef[j] != clf.Coef[j] {
			t.Errorf("Coef[%d] = %v, want %v", j, loaded.Coef[j], clf.Coef[j])
		}
	}

	want, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	got, err := loaded.Predict(X)
	if err != nil {
		t.Fatalf("loaded Predict failed: %v", err)
	}
	if !mat.Equal(want, got) {
		t.Error("loaded classifier predictions differ from the original")
	}

	params := loaded.GetParams()
	if params["max_iter"] != 200 || params["random_state"] != int64(42) {
		t.Errorf("loaded params = %v", params)
	}
}

func TestClassifierLoadMissingFile(t *testing.T) {
	clf := NewClassifier()
	if err := clf.Load(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected error for missing file")
	}
}
