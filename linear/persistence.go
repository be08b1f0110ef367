package linear

import (
	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// classifierState is the gob-encodable snapshot of a Classifier. Options and
// learned parameters round-trip; the RNG does not, so a loaded model can
// predict but refitting reseeds.
type classifierState struct {
	Penalty      string
	C            float64
	FitIntercept bool
	LearningRate float64
	MaxIter      int
	Tol          float64
	RandomState  int64

	Coef      []float64
	Intercept float64
	ClassVals []int
	NFeatures int
	NIter     int
	Fitted    bool
}

func (clf *Classifier) snapshot() classifierState {
	return classifierState{
		Penalty:      clf.penalty,
		C:            clf.c,
		FitIntercept: clf.fitIntercept,
		LearningRate: clf.learningRate,
		MaxIter:      clf.maxIter,
		Tol:          clf.tol,
		RandomState:  clf.randomState,
		Coef:         clf.Coef,
		Intercept:    clf.Intercept,
		ClassVals:    clf.ClassVals,
		NFeatures:    clf.NFeatures,
		NIter:        clf.NIter,
		Fitted:       clf.state.IsFitted(),
	}
}

func (clf *Classifier) restore(s classifierState) {
	clf.penalty = s.Penalty
	clf.c = s.C
	clf.fitIntercept = s.FitIntercept
	clf.learningRate = s.LearningRate
	clf.maxIter = s.MaxIter
	clf.tol = s.Tol
	clf.randomState = s.RandomState
	clf.Coef = s.Coef
	clf.Intercept = s.Intercept
	clf.ClassVals = s.ClassVals
	clf.NFeatures = s.NFeatures
	clf.NIter = s.NIter
	if clf.state == nil {
		clf.state = model.NewStateManager()
	}
	clf.state.Reset()
	if s.Fitted {
		clf.state.SetFitted()
		clf.state.SetDimensions(s.NFeatures, 0)
	}
}

// Save writes the classifier to a file.
func (clf *Classifier) Save(path string) error {
	if err := model.SaveModel(clf.snapshot(), path); err != nil {
		return errors.Wrap(err, "Classifier.Save")
	}
	return nil
}

// Load restores the classifier from a file written by Save.
func (clf *Classifier) Load(path string) error {
	var s classifierState
	if err := model.LoadModel(&s, path); err != nil {
		return errors.Wrap(err, "Classifier.Load")
	}
	clf.restore(s)
	return nil
}
