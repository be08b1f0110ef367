// Package linear implements the binary linear classifier the fairness
// workflows train and audit.
package linear

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// Classifier is a binary logistic-regression classifier trained by gradient
// descent with an adaptive step size.
type Classifier struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // "l2" or "none"
	c            float64 // inverse regularization strength
	fitIntercept bool
	learningRate float64
	maxIter      int
	tol          float64
	randomState  int64

	// Learned parameters, exported for gob encoding via snapshots
	Coef      []float64
	Intercept float64
	ClassVals []int // sorted unique labels; ClassVals[1] is the positive class
	NFeatures int
	NIter     int

	rand *rand.Rand
}

// NewClassifier creates a Classifier with scikit-learn-like defaults.
func NewClassifier(opts ...Option) *Classifier {
	clf := &Classifier{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		learningRate: 1.0,
		maxIter:      100,
		tol:          1e-4,
		randomState:  -1,
	}

	for _, opt := range opts {
		opt(clf)
	}

	if clf.randomState >= 0 {
		clf.rand = rand.New(rand.NewSource(clf.randomState))
	} else {
		clf.rand = rand.New(rand.NewSource(rand.Int63()))
	}

	return clf
}

// Fit trains the classifier. y must be a column vector of exactly two
// distinct label values; the larger label is treated as the positive class.
func (clf *Classifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("Classifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("Classifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("Classifier.Fit", "y must be a column vector")
	}

	classes, err := extractClasses(y)
	if err != nil {
		return err
	}
	clf.ClassVals = classes
	clf.NFeatures = nFeatures

	// 0/1 targets with ClassVals[1] as the positive class.
	targets := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == clf.ClassVals[1] {
			targets[i] = 1.0
		}
	}

	clf.Coef = make([]float64, nFeatures)
	for j := range clf.Coef {
		clf.Coef[j] = clf.rand.NormFloat64() * 0.01
	}
	clf.Intercept = 0

	converged := false
	for iter := 0; iter < clf.maxIter; iter++ {
		gradW := make([]float64, nFeatures)
		gradB := 0.0

		for i := 0; i < nSamples; i++ {
			z := clf.Intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * clf.Coef[j]
			}
			residual := sigmoid(z) - targets[i]
			gradB += residual
			for j := 0; j < nFeatures; j++ {
				gradW[j] += residual * X.At(i, j)
			}
		}

		for j := range gradW {
			gradW[j] /= float64(nSamples)
		}
		gradB /= float64(nSamples)

		if clf.penalty == "l2" {
			lambda := 1.0 / clf.c
			for j := range clf.Coef {
				gradW[j] += lambda * clf.Coef[j] / float64(nSamples)
			}
		}

		step := clf.learningRate / (1.0 + 0.1*float64(iter))
		for j := range clf.Coef {
			clf.Coef[j] -= step * gradW[j]
		}
		if clf.fitIntercept {
			clf.Intercept -= step * gradB
		}

		clf.NIter = iter + 1

		if iter%10 == 0 {
			if err := errors.CheckNumericalStability("gradient_update", clf.Coef, iter); err != nil {
				return err
			}
		}

		maxGrad := math.Abs(gradB)
		for _, g := range gradW {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < clf.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Classifier", clf.NIter, ""))
	}

	clf.state.SetFitted()
	clf.state.SetDimensions(nFeatures, nSamples)

	log.GetLoggerWithName("linear").Debug("fit complete",
		log.ModelNameKey, "Classifier",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.IterationKey, clf.NIter,
	)

	return nil
}

// extractClasses collects the sorted distinct integer labels of y and
// requires exactly two of them.
func extractClasses(y mat.Matrix) ([]int, error) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}

	classes := make([]int, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	if len(classes) != 2 {
		return nil, errors.NewValidationError("y", "expected exactly 2 classes", len(classes))
	}
	return classes, nil
}

// DecisionFunction returns the raw margin w·x + b for each row of X.
func (clf *Classifier) DecisionFunction(X mat.Matrix) (*mat.Dense, error) {
	if !clf.state.IsFitted() {
		return nil, errors.NewNotFittedError("Classifier", "DecisionFunction")
	}

	r, c := X.Dims()
	if c != clf.NFeatures {
		return nil, errors.NewDimensionError("Classifier.DecisionFunction", clf.NFeatures, c, 1)
	}

	margins := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		z := clf.Intercept
		for j := 0; j < c; j++ {
			z += X.At(i, j) * clf.Coef[j]
		}
		margins.Set(i, 0, z)
	}
	return margins, nil
}

// Predict returns the predicted class label for each row of X.
func (clf *Classifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	margins, err := clf.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := margins.Dims()
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if sigmoid(margins.At(i, 0)) >= 0.5 {
			predictions.Set(i, 0, float64(clf.ClassVals[1]))
		} else {
			predictions.Set(i, 0, float64(clf.ClassVals[0]))
		}
	}
	return predictions, nil
}

// PredictProba returns an n x 2 matrix of class probabilities, columns
// ordered as Classes().
func (clf *Classifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	margins, err := clf.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := margins.Dims()
	probas := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		p := sigmoid(margins.At(i, 0))
		probas.Set(i, 0, 1.0-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (clf *Classifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := clf.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != r {
		return 0, errors.NewDimensionError("Classifier.Score", r, yRows, 0)
	}

	correct := 0
	for i := 0; i < r; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}

// Classes returns the unique class labels seen during fitting.
func (clf *Classifier) Classes() []int {
	out := make([]int, len(clf.ClassVals))
	copy(out, clf.ClassVals)
	return out
}

// IsFitted reports whether the classifier has been fitted.
func (clf *Classifier) IsFitted() bool {
	return clf.state.IsFitted()
}

// GetParams returns the model hyperparameters.
func (clf *Classifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       clf.penalty,
		"C":             clf.c,
		"fit_intercept": clf.fitIntercept,
		"learning_rate": clf.learningRate,
		"max_iter":      clf.maxIter,
		"tol":           clf.tol,
		"random_state":  clf.randomState,
	}
}

// SetParams sets the model hyperparameters.
func (clf *Classifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "penalty":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "expected string", value)
			}
			clf.penalty = v
		case "C":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "expected float64", value)
			}
			clf.c = v
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "expected bool", value)
			}
			clf.fitIntercept = v
		case "learning_rate":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "expected float64", value)
			}
			clf.learningRate = v
		case "max_iter":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "expected int", value)
			}
			clf.maxIter = v
		case "tol":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "expected float64", value)
			}
			clf.tol = v
		case "random_state":
			v, ok := value.(int64)
			if !ok {
				return errors.NewValidationError(key, "expected int64", value)
			}
			clf.randomState = v
			if v >= 0 {
				clf.rand = rand.New(rand.NewSource(v))
			}
		default:
			return errors.NewValueError("Classifier.SetParams", "unknown parameter: "+key)
		}
	}
	return nil
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
