// Package metrics implements the classification metrics used by the
// fairness audit and as tuning objectives.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// validatePair checks that both vectors are non-empty and equally sized.
func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// Accuracy returns the fraction of predictions equal to the true labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionCounts holds the binary confusion-matrix cells with the positive
// class fixed at label 1.
type ConfusionCounts struct {
	TP, FP, TN, FN int
}

// ConfusionMatrix computes binary confusion counts. Labels must be 0 or 1.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (ConfusionCounts, error) {
	var cc ConfusionCounts
	n, err := validatePair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return cc, err
	}

	for i := 0; i < n; i++ {
		yt, yp := yTrue.AtVec(i), yPred.AtVec(i)
		if (yt != 0 && yt != 1) || (yp != 0 && yp != 1) {
			return cc, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}
		switch {
		case yt == 1 && yp == 1:
			cc.TP++
		case yt == 0 && yp == 1:
			cc.FP++
		case yt == 0 && yp == 0:
			cc.TN++
		default:
			cc.FN++
		}
	}
	return cc, nil
}

// Precision returns TP / (TP + FP) for the positive class 1. When no
// positive predictions exist the metric is undefined; a warning is raised
// and 0 is returned.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	cc, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	denom := cc.TP + cc.FP
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}
	return float64(cc.TP) / float64(denom), nil
}

// Recall returns TP / (TP + FN) for the positive class 1. When no positive
// labels exist the metric is undefined; a warning is raised and 0 is
// returned.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	cc, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	denom := cc.TP + cc.FN
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives in labels", 0))
		return 0, nil
	}
	return float64(cc.TP) / float64(denom), nil
}

// TruePositiveRate is an alias for Recall, named as the fairness literature
// names it.
func TruePositiveRate(yTrue, yPred *mat.VecDense) (float64, error) {
	return Recall(yTrue, yPred)
}

// FalsePositiveRate returns FP / (FP + TN). Undefined cases warn and
// return 0.
func FalsePositiveRate(yTrue, yPred *mat.VecDense) (float64, error) {
	cc, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	denom := cc.FP + cc.TN
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("false_positive_rate", "no true negatives in labels", 0))
		return 0, nil
	}
	return float64(cc.FP) / float64(denom), nil
}

// LogLoss returns the mean negative log-likelihood of binary labels under
// predicted probabilities. Probabilities are clipped to avoid log(0).
func LogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := validatePair("LogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}

	const eps = 1e-15
	loss := 0.0
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("LogLoss", "labels must be binary (0 or 1)")
		}
		p := yProb.AtVec(i)
		if p < eps {
			p = eps
		} else if p > 1-eps {
			p = 1 - eps
		}
		if y == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// AUC returns the area under the ROC curve for binary labels and continuous
// scores, computed as the rank statistic with midrank tie handling. When all
// labels share one class the metric is undefined; a warning is raised and
// 0.5 is returned.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := validatePair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "only one class present", 0.5))
		return 0.5, nil
	}

	// Midranks over scores.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yScore.AtVec(order[a]) < yScore.AtVec(order[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(order[j+1]) == yScore.AtVec(order[i]) {
			j++
		}
		midrank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = midrank
		}
		i = j + 1
	}

	rankSumPos := 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSumPos += ranks[i]
		}
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AccuracyMatrix computes Accuracy over the first column of matrix inputs,
// the shape models return from Predict.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := firstColumn("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := firstColumn("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(t, p)
}

// LogLossMatrix computes LogLoss over the first column of matrix inputs.
func LogLossMatrix(yTrue, yProb mat.Matrix) (float64, error) {
	t, err := firstColumn("LogLossMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := firstColumn("LogLossMatrix", yProb)
	if err != nil {
		return 0, err
	}
	return LogLoss(t, p)
}

func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
