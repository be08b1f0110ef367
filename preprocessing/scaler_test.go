package preprocessing

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := out.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("dims = (%d, %d), want (4, 2)", r, c)
	}

	// Each transformed column has zero mean and unit sample variance.
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			v := out.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(r)
		if math.Abs(mean) > 1e-12 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		variance := (sumSq - float64(r)*mean*mean) / float64(r-1)
		if math.Abs(variance-1) > 1e-12 {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if out.At(i, 0) != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, out.At(i, 0))
		}
	}
	if scaler.Scales[0] != 1 {
		t.Errorf("constant column scale = %v, want 1", scaler.Scales[0])
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1.5, -2,
		3.25, 0,
		-1, 7,
	})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if !mat.EqualApprox(X, back, 1e-12) {
		t.Error("inverse transform does not restore the input")
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScaler()
	X := mat.NewDense(1, 1, []float64{1})

	if _, err := scaler.Transform(X); err == nil {
		t.Fatal("expected NotFittedError")
	} else {
		var nfe *errors.NotFittedError
		if !errors.As(err, &nfe) {
			t.Errorf("expected NotFittedError, got %T", err)
		}
	}
	if _, err := scaler.InverseTransform(X); err == nil {
		t.Error("expected NotFittedError from InverseTransform")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("expected DimensionError for wrong feature count")
	}
}

func TestStandardScalerSaveLoad(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	scaler := NewStandardScaler()
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scaler.gob")
	if err := scaler.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewStandardScaler()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.IsFitted() {
		t.Error("loaded scaler should be fitted")
	}

	want, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	got, err := loaded.Transform(X)
	if err != nil {
		t.Fatalf("loaded Transform failed: %v", err)
	}
	if !mat.EqualApprox(want, got, 1e-15) {
		t.Error("loaded scaler disagrees with the original")
	}
}
