package tuning

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// Fold is one train/test index split of a cross-validation.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds. Split fails when the data
// cannot populate every fold with at least one test sample.
type Splitter interface {
	Split(X, y mat.Matrix) ([]Fold, error)
	NumSplits() int
}

// KFold splits samples into k contiguous folds, optionally shuffled.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold creates a k-fold splitter. Fewer than two splits falls back to
// the conventional five.
func NewKFold(nSplits int, shuffle bool, seed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NSplits: nSplits,
		Shuffle: shuffle,
		Seed:    seed,
	}
}

// NumSplits returns the number of folds.
func (kf *KFold) NumSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. It fails when there
// are fewer samples than folds, which would leave some folds without test
// indices.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if nSamples < kf.NSplits {
		return nil, errors.NewValidationError("nSplits",
			"cannot exceed the number of samples", kf.NSplits)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		rng := rand.New(rand.NewSource(kf.Seed))
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	cur := 0
	for f := 0; f < kf.NSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[cur:cur+testSize])

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:cur]...)
		train = append(train, indices[cur+testSize:]...)

		folds[f] = Fold{TrainIndices: train, TestIndices: test}
		cur += testSize
	}

	return folds, nil
}

// StratifiedKFold splits samples into k folds preserving the per-class
// proportions, which k-fold on imbalanced labels does not.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{
		NSplits: nSplits,
		Shuffle: shuffle,
		Seed:    seed,
	}
}

// NumSplits returns the number of folds.
func (skf *StratifiedKFold) NumSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold. Every class
// must have at least NSplits members, otherwise dealing the class across
// the folds would leave some folds without test indices.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if nSamples < skf.NSplits {
		return nil, errors.NewValidationError("nSplits",
			"cannot exceed the number of samples", skf.NSplits)
	}

	classIndices := make(map[float64][]int)
	var classOrder []float64
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, ok := classIndices[label]; !ok {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)

	for _, label := range classOrder {
		if len(classIndices[label]) < skf.NSplits {
			return nil, errors.NewValidationError("nSplits",
				"cannot exceed the size of the smallest class", skf.NSplits)
		}
	}

	if skf.Shuffle {
		rng := rand.New(rand.NewSource(skf.Seed))
		for _, label := range classOrder {
			indices := classIndices[label]
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NSplits)

	// Deal each class across the folds in turn.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		cur := 0
		for f := 0; f < skf.NSplits; f++ {
			testSize := foldSize
			if f < remainder {
				testSize++
			}
			for k := 0; k < testSize && cur < nClass; k++ {
				folds[f].TestIndices = append(folds[f].TestIndices, indices[cur])
				cur++
			}
		}
	}

	for f := 0; f < skf.NSplits; f++ {
		inTest := make(map[int]bool, len(folds[f].TestIndices))
		for _, idx := range folds[f].TestIndices {
			inTest[idx] = true
		}
		for i := 0; i < nSamples; i++ {
			if !inTest[i] {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
	}

	return folds, nil
}

// Subset extracts the rows of X and y selected by indices, in sorted order.
func Subset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	xSub := mat.NewDense(rows, xCols, nil)
	ySub := mat.NewDense(rows, yCols, nil)
	for i, idx := range sorted {
		for j := 0; j < xCols; j++ {
			xSub.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySub.Set(i, j, y.At(idx, j))
		}
	}
	return xSub, ySub
}
