// Package dataset loads tabular data into gonum matrices and provides the
// split helpers the training, audit and tuning workflows start from.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// Dataset holds a design matrix, its label column and the column metadata
// recovered from the source file.
type Dataset struct {
	// X is the n_samples x n_features design matrix.
	X *mat.Dense

	// Y is the n_samples x 1 label column.
	Y *mat.Dense

	// FeatureNames are the column names of X, in order. Empty when the
	// source had no header.
	FeatureNames []string

	// LabelName is the name of the label column, if known.
	LabelName string

	// Encoders maps a categorical column name to its value encoding.
	// Numeric columns have no entry.
	Encoders map[string]map[string]float64
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	if d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// FeatureIndex returns the column index of the named feature.
func (d *Dataset) FeatureIndex(name string) (int, error) {
	for i, n := range d.FeatureNames {
		if n == name {
			return i, nil
		}
	}
	return 0, errors.NewValueError("Dataset.FeatureIndex", "unknown feature: "+name)
}

// Column returns a copy of feature column j as a vector.
func (d *Dataset) Column(j int) (*mat.VecDense, error) {
	r, c := d.X.Dims()
	if j < 0 || j >= c {
		return nil, errors.NewDimensionError("Dataset.Column", c, j, 1)
	}
	col := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		col.SetVec(i, d.X.At(i, j))
	}
	return col, nil
}
