// Package preprocessing implements feature scaling for the training
// pipelines. Gradient-descent training is sensitive to feature magnitudes,
// so tabular features are standardized before fitting.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// StandardScaler standardizes features to zero mean and unit variance.
// Constant columns keep a scale of 1 so transforming them is a no-op shift.
type StandardScaler struct {
	model.BaseEstimator

	// Means holds the per-feature means seen during Fit.
	Means []float64

	// Scales holds the per-feature standard deviations seen during Fit.
	Scales []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewStandardScaler creates an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes the per-feature mean and standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Means = make([]float64, c)
	s.Scales = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X.At(i, j)
		}
		mean, std := stat.MeanStdDev(col, nil)
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		s.Means[j] = mean
		s.Scales[j] = std
	}

	if err := errors.CheckNumericalStability("scaler_means", s.Means, 0); err != nil {
		return err
	}

	s.NFeatures = c
	s.SetFitted()

	log.GetLoggerWithName("preprocessing").Debug("scaler fitted",
		log.ModelNameKey, "StandardScaler",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	return nil
}

// Transform standardizes X using the fitted means and scales.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Means[j])/s.Scales[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and transforms it in one call.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original feature
// space.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j)*s.Scales[j]+s.Means[j])
		}
	}
	return out, nil
}

// Save writes the fitted scaler to a file.
func (s *StandardScaler) Save(path string) error {
	st := scalerState{
		Means:     s.Means,
		Scales:    s.Scales,
		NFeatures: s.NFeatures,
		Fitted:    s.IsFitted(),
	}
	if err := model.SaveModel(st, path); err != nil {
		return errors.Wrap(err, "StandardScaler.Save")
	}
	return nil
}

// Load restores the scaler from a file written by Save.
func (s *StandardScaler) Load(path string) error {
	var st scalerState
	if err := model.LoadModel(&st, path); err != nil {
		return errors.Wrap(err, "StandardScaler.Load")
	}
	s.Means = st.Means
	s.Scales = st.Scales
	s.NFeatures = st.NFeatures
	s.Reset()
	if st.Fitted {
		s.SetFitted()
	}
	return nil
}

type scalerState struct {
	Means     []float64
	Scales    []float64
	NFeatures int
	Fitted    bool
}
