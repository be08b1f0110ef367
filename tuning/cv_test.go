package tuning

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

func makeData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*2)
		y.Set(i, 0, float64(i%2))
	}
	return X, y
}

func checkFoldCoverage(t *testing.T, folds []Fold, n int) {
	t.Helper()
	testSeen := make(map[int]int)
	for f, fold := range folds {
		inTest := make(map[int]bool)
		for _, idx := range fold.TestIndices {
			testSeen[idx]++
			inTest[idx] = true
		}
		for _, idx := range fold.TrainIndices {
			if inTest[idx] {
				t.Errorf("fold %d: index %d in both train and test", f, idx)
			}
		}
		if len(fold.TrainIndices)+len(fold.TestIndices) != n {
			t.Errorf("fold %d covers %d indices, want %d", f,
				len(fold.TrainIndices)+len(fold.TestIndices), n)
		}
	}
	for i := 0; i < n; i++ {
		if testSeen[i] != 1 {
			t.Errorf("index %d appears in %d test folds, want 1", i, testSeen[i])
		}
	}
}

func TestKFoldSplit(t *testing.T) {
	X, y := makeData(10)

	kf := NewKFold(5, false, 0)
	if kf.NumSplits() != 5 {
		t.Fatalf("NumSplits = %d, want 5", kf.NumSplits())
	}

	folds, err := kf.Split(X, y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(folds) != 5 {
		t.Fatalf("folds = %d, want 5", len(folds))
	}
	checkFoldCoverage(t, folds, 10)

	for f, fold := range folds {
		if len(fold.TestIndices) != 2 {
			t.Errorf("fold %d test size = %d, want 2", f, len(fold.TestIndices))
		}
	}
}

func TestKFoldUnevenSplit(t *testing.T) {
	X, y := makeData(11)
	folds, err := NewKFold(3, false, 0).Split(X, y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	checkFoldCoverage(t, folds, 11)

	sizes := []int{len(folds[0].TestIndices), len(folds[1].TestIndices), len(folds[2].TestIndices)}
	if sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 3 {
		t.Errorf("test sizes = %v, want [4 4 3]", sizes)
	}
}

func TestKFoldShuffleDeterministic(t *testing.T) {
	X, y := makeData(12)

	a, err := NewKFold(4, true, 9).Split(X, y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	b, err := NewKFold(4, true, 9).Split(X, y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for f := range a {
		if len(a[f].TestIndices) != len(b[f].TestIndices) {
			t.Fatalf("fold %d sizes differ", f)
		}
		for i := range a[f].TestIndices {
			if a[f].TestIndices[i] != b[f].TestIndices[i] {
				t.Fatalf("fold %d differs between runs with the same seed", f)
			}
		}
	}
	checkFoldCoverage(t, a, 12)
}

func TestKFoldDefaultsToFive(t *testing.T) {
	if NewKFold(0, false, 0).NumSplits() != 5 {
		t.Error("invalid split count should fall back to 5")
	}
	if NewStratifiedKFold(1, false, 0).NumSplits() != 5 {
		t.Error("invalid stratified split count should fall back to 5")
	}
}

func TestStratifiedKFoldPreservesClassBalance(t *testing.T) {
	// 20 samples, 25% positive.
	X := mat.NewDense(20, 1, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		if i%4 == 0 {
			y.Set(i, 0, 1)
		}
	}

	folds, err := NewStratifiedKFold(5, true, 42).Split(X, y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	checkFoldCoverage(t, folds, 20)

	for f, fold := range folds {
		positives := 0
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 1 {
				positives++
			}
		}
		if positives != 1 {
			t.Errorf("fold %d test positives = %d, want 1", f, positives)
		}
		if len(fold.TestIndices) != 4 {
			t.Errorf("fold %d test size = %d, want 4", f, len(fold.TestIndices))
		}
	}
}

func TestSplitRejectsDegenerateData(t *testing.T) {
	// A one-positive label vector for the smallest-class case.
	XSparse := mat.NewDense(10, 1, nil)
	ySparse := mat.NewDense(10, 1, nil)
	ySparse.Set(0, 0, 1)

	tests := []struct {
		name     string
		splitter Splitter
		X, y     *mat.Dense
	}{
		{
			name:     "kfold more folds than samples",
			splitter: NewKFold(5, false, 0),
		},
		{
			name:     "stratified more folds than samples",
			splitter: NewStratifiedKFold(5, false, 0),
		},
		{
			name:     "stratified class smaller than fold count",
			splitter: NewStratifiedKFold(5, false, 0),
			X:        XSparse,
			y:        ySparse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, y := tt.X, tt.y
			if X == nil {
				X, y = makeData(4)
			}
			_, err := tt.splitter.Split(X, y)
			if err == nil {
				t.Fatal("expected error, got folds")
			}
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSubset(t *testing.T) {
	X, y := makeData(6)

	xs, ys := Subset(X, y, []int{4, 1, 3})

	r, c := xs.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("subset dims = (%d, %d), want (3, 2)", r, c)
	}

	// Rows come back in sorted index order.
	wantFirst := []float64{1, 3, 4}
	for i, idx := range wantFirst {
		if xs.At(i, 0) != idx {
			t.Errorf("subset row %d = %v, want %v", i, xs.At(i, 0), idx)
		}
		if ys.At(i, 0) != float64(int(idx)%2) {
			t.Errorf("subset label %d unpaired", i)
		}
	}
}
