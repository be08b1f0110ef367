package tuning

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/core/model"
	"github.com/fairgo-ml/fairgo/metrics"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// Objective states whether higher or lower scores win.
type Objective int

const (
	// Maximize treats the score as a quality measure (accuracy, AUC).
	Maximize Objective = iota
	// Minimize treats the score as a loss (log loss).
	Minimize
)

// Factory builds a fresh model for one parameter assignment. Each candidate
// evaluation gets its own model so candidates can run concurrently.
type Factory func(params map[string]interface{}) (model.Classifier, error)

// Scorer evaluates a fitted model on held-out data.
type Scorer func(m model.Classifier, X, y mat.Matrix) (float64, error)

// AccuracyScorer scores by mean accuracy. Pair with Maximize.
func AccuracyScorer(m model.Classifier, X, y mat.Matrix) (float64, error) {
	return m.Score(X, y)
}

// LogLossScorer scores by log loss of the positive-class probability.
// Pair with Minimize.
func LogLossScorer(m model.Classifier, X, y mat.Matrix) (float64, error) {
	probas, err := m.PredictProba(X)
	if err != nil {
		return 0, err
	}
	r, c := probas.Dims()
	positive := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		positive.Set(i, 0, probas.At(i, c-1))
	}
	return metrics.LogLossMatrix(y, positive)
}

// Candidate is one evaluated parameter assignment.
type Candidate struct {
	Params     map[string]interface{}
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
}

// Result holds all evaluated candidates and the winner.
type Result struct {
	Candidates []Candidate
	BestIndex  int
	BestParams map[string]interface{}
	BestScore  float64
	Elapsed    time.Duration
}

// Tuner runs hyperparameter search with cross-validated scoring. Candidates
// are evaluated concurrently, one goroutine per candidate.
type Tuner struct {
	factory Factory
	space   Space

	splitter       Splitter
	objective      Objective
	scorer         Scorer
	numCandidates  int
	gridResolution int
	seed           int64

	logger log.Logger
}

// TunerOption configures a Tuner.
type TunerOption func(*Tuner)

// WithSplitter sets the cross-validation splitter. Default: stratified
// 5-fold with shuffling.
func WithSplitter(s Splitter) TunerOption {
	return func(t *Tuner) {
		t.splitter = s
	}
}

// WithObjective sets the optimization direction. Default: Maximize.
func WithObjective(o Objective) TunerOption {
	return func(t *Tuner) {
		t.objective = o
	}
}

// WithScorer sets the fold scorer. Default: AccuracyScorer.
func WithScorer(s Scorer) TunerOption {
	return func(t *Tuner) {
		t.scorer = s
	}
}

// WithNumCandidates sets how many candidates RandomSearch draws.
// Default: 20.
func WithNumCandidates(n int) TunerOption {
	return func(t *Tuner) {
		t.numCandidates = n
	}
}

// WithGridResolution sets how many points GridSearch places on each
// continuous range. Default: 5.
func WithGridResolution(n int) TunerOption {
	return func(t *Tuner) {
		t.gridResolution = n
	}
}

// WithSeed seeds candidate sampling. Default: 42.
func WithSeed(seed int64) TunerOption {
	return func(t *Tuner) {
		t.seed = seed
	}
}

// NewTuner creates a Tuner over a model factory and a search space.
func NewTuner(factory Factory, space Space, opts ...TunerOption) *Tuner {
	t := &Tuner{
		factory:        factory,
		space:          space,
		splitter:       NewStratifiedKFold(5, true, 42),
		objective:      Maximize,
		scorer:         AccuracyScorer,
		numCandidates:  20,
		gridResolution: 5,
		seed:           42,
		logger:         log.GetLoggerWithName("tuning"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RandomSearch evaluates randomly sampled parameter assignments and returns
// the cross-validated results. It blocks until every candidate finished or
// the context is canceled.
func (t *Tuner) RandomSearch(ctx context.Context, X, y mat.Matrix) (*Result, error) {
	if err := t.space.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(t.seed))
	candidates := make([]map[string]interface{}, t.numCandidates)
	for i := range candidates {
		candidates[i] = t.space.Sample(rng)
	}

	return t.evaluate(ctx, X, y, candidates)
}

// GridSearch evaluates the full cartesian grid of the space and returns the
// cross-validated results.
func (t *Tuner) GridSearch(ctx context.Context, X, y mat.Matrix) (*Result, error) {
	if err := t.space.Validate(); err != nil {
		return nil, err
	}
	return t.evaluate(ctx, X, y, t.space.GridCandidates(t.gridResolution))
}

func (t *Tuner) evaluate(ctx context.Context, X, y mat.Matrix, candidates []map[string]interface{}) (*Result, error) {
	if len(candidates) == 0 {
		return nil, errors.NewValueError("Tuner.evaluate", "no candidates to evaluate")
	}

	start := time.Now()
	folds, err := t.splitter.Split(X, y)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Candidates: make([]Candidate, len(candidates)),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(candidates))

	for ci, params := range candidates {
		wg.Add(1)
		go func(ci int, params map[string]interface{}) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[ci] = errors.Wrap(errors.ErrCanceled, err.Error())
				return
			}

			scores, err := t.evaluateCandidate(ctx, X, y, folds, params)
			if err != nil {
				errs[ci] = errors.Wrapf(err, "candidate %d", ci)
				return
			}

			mean, std := meanStd(scores)
			result.Candidates[ci] = Candidate{
				Params:     params,
				FoldScores: scores,
				MeanScore:  mean,
				StdScore:   std,
			}
		}(ci, params)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	result.BestIndex = 0
	for i := 1; i < len(result.Candidates); i++ {
		if t.better(result.Candidates[i].MeanScore, result.Candidates[result.BestIndex].MeanScore) {
			result.BestIndex = i
		}
	}
	result.BestParams = result.Candidates[result.BestIndex].Params
	result.BestScore = result.Candidates[result.BestIndex].MeanScore
	result.Elapsed = time.Since(start)

	t.logger.Info("search complete",
		log.PhaseKey, log.PhaseSearch,
		log.CandidateKey, result.BestIndex,
		"candidates", len(candidates),
		"best_score", result.BestScore,
		log.DurationMsKey, result.Elapsed.Milliseconds(),
	)

	return result, nil
}

func (t *Tuner) evaluateCandidate(ctx context.Context, X, y mat.Matrix, folds []Fold, params map[string]interface{}) ([]float64, error) {
	scores := make([]float64, len(folds))

	for fi, fold := range folds {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCanceled, err.Error())
		}

		m, err := t.factory(params)
		if err != nil {
			return nil, err
		}

		trainX, trainY := Subset(X, y, fold.TrainIndices)
		testX, testY := Subset(X, y, fold.TestIndices)

		if err := m.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "fold %d fit", fi)
		}

		score, err := t.scorer(m, testX, testY)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d score", fi)
		}
		scores[fi] = score
	}

	return scores, nil
}

func (t *Tuner) better(a, b float64) bool {
	if t.objective == Minimize {
		return a < b
	}
	return a > b
}

func meanStd(scores []float64) (mean, std float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	if len(scores) < 2 {
		return mean, 0
	}
	sumSq := 0.0
	for _, s := range scores {
		diff := s - mean
		sumSq += diff * diff
	}
	return mean, math.Sqrt(sumSq / float64(len(scores)-1))
}
