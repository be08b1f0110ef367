// Package fairness implements the group-fairness audit and the closed-form
// fairness-correcting transform for binary classification over tabular data.
//
// The protected attribute partitions examples into group A and group B. The
// Uncorrelator removes the correlation between the remaining features and
// group membership among positively-labeled examples by shifting group-B
// rows by the difference of the group-conditioned means, then dropping the
// sensitive column entirely.
package fairness

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// Uncorrelator is a supervised transformer that removes the linear
// association between the sensitive feature and the other features among
// positively-labeled examples.
//
// Fit computes the bias vector
//
//	u = mean(X[y==1 & A]) - mean(X[y==1 & B])
//
// and Transform shifts every group-B row by u before dropping the sensitive
// column from all rows. Group-A rows pass through unchanged apart from the
// dropped column.
type Uncorrelator struct {
	model.BaseEstimator

	// SensitiveIndex is the column index of the protected attribute.
	SensitiveIndex int

	// GroupAValue is the sensitive-feature value marking group A.
	// By convention group A is coded 0 and group B is coded 1.
	GroupAValue float64

	// U is the fitted bias vector, one entry per input feature.
	// U[SensitiveIndex] is forced to -1 under the 0/1 group coding.
	U []float64

	// NFeatures is the number of input features seen during Fit.
	NFeatures int
}

// NewUncorrelator creates an Uncorrelator for the sensitive feature at the
// given column index, with groupAValue marking group-A rows.
func NewUncorrelator(sensitiveIndex int, groupAValue float64) *Uncorrelator {
	return &Uncorrelator{
		SensitiveIndex: sensitiveIndex,
		GroupAValue:    groupAValue,
	}
}

// Fit computes the bias vector from the group-conditioned means of the
// positively-labeled examples. It fails with an EmptyGroupError when either
// group has no positively-labeled examples, since the corresponding mean
// would be undefined.
func (u *Uncorrelator) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	yRows, yCols := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Uncorrelator.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != r {
		return errors.NewDimensionError("Uncorrelator.Fit", r, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("Uncorrelator.Fit", "y must be a column vector")
	}
	if u.SensitiveIndex < 0 || u.SensitiveIndex >= c {
		return errors.NewValidationError("sensitiveIndex", "out of range for input features", u.SensitiveIndex)
	}

	sumA := make([]float64, c)
	sumB := make([]float64, c)
	countA, countB := 0, 0

	for i := 0; i < r; i++ {
		if y.At(i, 0) != 1 {
			continue
		}
		if X.At(i, u.SensitiveIndex) == u.GroupAValue {
			countA++
			for j := 0; j < c; j++ {
				sumA[j] += X.At(i, j)
			}
		} else {
			countB++
			for j := 0; j < c; j++ {
				sumB[j] += X.At(i, j)
			}
		}
	}

	if countA == 0 {
		return errors.NewEmptyGroupError("Uncorrelator.Fit", "A", "label == 1")
	}
	if countB == 0 {
		return errors.NewEmptyGroupError("Uncorrelator.Fit", "B", "label == 1")
	}

	u.U = make([]float64, c)
	for j := 0; j < c; j++ {
		u.U[j] = sumA[j]/float64(countA) - sumB[j]/float64(countB)
	}
	// Under the 0/1 coding, mean_A - mean_B of the sensitive column itself
	// is exactly -1; pin it so arbitrary group markers behave identically.
	u.U[u.SensitiveIndex] = -1

	if err := errors.CheckNumericalStability("bias_vector", u.U, 0); err != nil {
		return err
	}

	u.NFeatures = c
	u.SetFitted()

	log.GetLoggerWithName("fairness").Debug("uncorrelator fitted",
		log.ModelNameKey, "Uncorrelator",
		log.OperationKey, log.OperationFit,
		log.SensitiveIndexKey, u.SensitiveIndex,
		log.GroupASizeKey, countA,
		log.GroupBSizeKey, countB,
	)

	return nil
}

// Transform applies the fairness correction: group-B rows are shifted by
// the bias vector, group-A rows pass through, and the sensitive column is
// dropped from every row.
//
// Calling Transform before Fit is not an error: a NotFittedWarning is
// raised and the input is returned unchanged, sensitive column included.
func (u *Uncorrelator) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !u.IsFitted() {
		errors.Warn(errors.NewNotFittedWarning("Uncorrelator", "Transform"))
		return X, nil
	}

	r, c := X.Dims()
	if c != u.NFeatures {
		return nil, errors.NewDimensionError("Uncorrelator.Transform", u.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c-1, nil)
	for i := 0; i < r; i++ {
		shift := X.At(i, u.SensitiveIndex) != u.GroupAValue
		out := 0
		for j := 0; j < c; j++ {
			if j == u.SensitiveIndex {
				continue
			}
			v := X.At(i, j)
			if shift {
				v += u.U[j]
			}
			result.Set(i, out, v)
			out++
		}
	}

	return result, nil
}

// FitTransform fits the uncorrelator on X, y and transforms X in one call.
func (u *Uncorrelator) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	if err := u.Fit(X, y); err != nil {
		return nil, err
	}
	return u.Transform(X)
}

// BiasVector returns a copy of the fitted bias vector u.
func (u *Uncorrelator) BiasVector() []float64 {
	if u.U == nil {
		return nil
	}
	out := make([]float64, len(u.U))
	copy(out, u.U)
	return out
}

// GetParams returns the transformer parameters.
func (u *Uncorrelator) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"sensitive_index": u.SensitiveIndex,
		"group_a_value":   u.GroupAValue,
	}
}

// Save writes the fitted uncorrelator to a file.
func (u *Uncorrelator) Save(path string) error {
	s := uncorrelatorState{
		SensitiveIndex: u.SensitiveIndex,
		GroupAValue:    u.GroupAValue,
		U:              u.U,
		NFeatures:      u.NFeatures,
		Fitted:         u.IsFitted(),
	}
	if err := model.SaveModel(s, path); err != nil {
		return errors.Wrap(err, "Uncorrelator.Save")
	}
	return nil
}

// Load restores the uncorrelator from a file written by Save.
func (u *Uncorrelator) Load(path string) error {
	var s uncorrelatorState
	if err := model.LoadModel(&s, path); err != nil {
		return errors.Wrap(err, "Uncorrelator.Load")
	}
	u.SensitiveIndex = s.SensitiveIndex
	u.GroupAValue = s.GroupAValue
	u.U = s.U
	u.NFeatures = s.NFeatures
	u.Reset()
	if s.Fitted {
		u.SetFitted()
	}
	return nil
}

type uncorrelatorState struct {
	SensitiveIndex int
	GroupAValue    float64
	U              []float64
	NFeatures      int
	Fitted         bool
}
