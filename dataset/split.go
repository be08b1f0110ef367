package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// TrainTestSplit splits X and y into train and test sets. testRatio is the
// fraction of rows assigned to the test set, in (0, 1). Rows are shuffled
// with the given seed before splitting so the split is reproducible.
func TrainTestSplit(X, y mat.Matrix, testRatio float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("testRatio", "must be in (0, 1)", testRatio)
	}

	n, xCols := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != n {
		return nil, nil, nil, nil, errors.NewDimensionError("dataset.TrainTestSplit", n, yRows, 0)
	}
	if n == 0 {
		return nil, nil, nil, nil, errors.NewModelError("dataset.TrainTestSplit", "empty data", errors.ErrEmptyData)
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)

	nTest := int(float64(n) * testRatio)
	if nTest == 0 {
		nTest = 1
	}
	nTrain := n - nTest
	if nTrain < 1 {
		return nil, nil, nil, nil, errors.NewValidationError("testRatio",
			"not enough samples to leave a training set", testRatio)
	}

	XTrain = mat.NewDense(nTrain, xCols, nil)
	XTest = mat.NewDense(nTest, xCols, nil)
	yTrain = mat.NewDense(nTrain, yCols, nil)
	yTest = mat.NewDense(nTest, yCols, nil)

	for i, idx := range indices {
		var dstX, dstY *mat.Dense
		var row int
		if i < nTest {
			dstX, dstY, row = XTest, yTest, i
		} else {
			dstX, dstY, row = XTrain, yTrain, i-nTest
		}
		for j := 0; j < xCols; j++ {
			dstX.Set(row, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			dstY.Set(row, j, y.At(idx, j))
		}
	}

	return XTrain, XTest, yTrain, yTest, nil
}

// Shuffle returns copies of X and y with their rows permuted in unison.
func Shuffle(X, y mat.Matrix, seed int64) (*mat.Dense, *mat.Dense, error) {
	n, xCols := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != n {
		return nil, nil, errors.NewDimensionError("dataset.Shuffle", n, yRows, 0)
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)

	XOut := mat.NewDense(n, xCols, nil)
	yOut := mat.NewDense(n, yCols, nil)
	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			XOut.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			yOut.Set(i, j, y.At(idx, j))
		}
	}
	return XOut, yOut, nil
}
