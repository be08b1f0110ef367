package fairness

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/metrics"
	"github.com/fairgo-ml/fairgo/pkg/errors"
	"github.com/fairgo-ml/fairgo/pkg/log"
)

// GroupReport summarizes classifier behavior on one demographic subgroup.
type GroupReport struct {
	Group     string
	Size      int
	Positives int
	TPR       float64
	FPR       float64
	Accuracy  float64
}

// AuditReport summarizes classifier behavior on both subgroups, including
// the difference in equal opportunity.
type AuditReport struct {
	A   GroupReport
	B   GroupReport
	DEO float64
}

// SensitiveColumn extracts column index from X as a vector, for use as the
// sensitive-feature argument of DEO and Audit before the column has been
// dropped by the uncorrelator.
func SensitiveColumn(X mat.Matrix, index int) (*mat.VecDense, error) {
	r, c := X.Dims()
	if index < 0 || index >= c {
		return nil, errors.NewDimensionError("fairness.SensitiveColumn", c, index, 1)
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, X.At(i, index))
	}
	return v, nil
}

// DEO returns the difference in equal opportunity: the absolute difference
// in true-positive rate between group A (sensitive == groupAValue) and
// group B (everything else). Undefined subgroup rates follow the metrics
// package convention of warning and counting as 0.
func DEO(yTrue, yPred, sensitive *mat.VecDense, groupAValue float64) (float64, error) {
	tprA, tprB, err := GroupTPR(yTrue, yPred, sensitive, groupAValue)
	if err != nil {
		return 0, err
	}
	return math.Abs(tprA - tprB), nil
}

// GroupTPR returns the per-group true-positive rates.
func GroupTPR(yTrue, yPred, sensitive *mat.VecDense, groupAValue float64) (tprA, tprB float64, err error) {
	yTrueA, yPredA, yTrueB, yPredB, err := splitByGroup(yTrue, yPred, sensitive, groupAValue)
	if err != nil {
		return 0, 0, err
	}

	tprA, err = groupRate(metrics.TruePositiveRate, yTrueA, yPredA)
	if err != nil {
		return 0, 0, err
	}
	tprB, err = groupRate(metrics.TruePositiveRate, yTrueB, yPredB)
	if err != nil {
		return 0, 0, err
	}
	return tprA, tprB, nil
}

// Audit computes the full per-group report and the DEO.
func Audit(yTrue, yPred, sensitive *mat.VecDense, groupAValue float64) (*AuditReport, error) {
	yTrueA, yPredA, yTrueB, yPredB, err := splitByGroup(yTrue, yPred, sensitive, groupAValue)
	if err != nil {
		return nil, err
	}

	a, err := groupReport("A", yTrueA, yPredA)
	if err != nil {
		return nil, err
	}
	b, err := groupReport("B", yTrueB, yPredB)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{
		A:   a,
		B:   b,
		DEO: math.Abs(a.TPR - b.TPR),
	}

	log.GetLoggerWithName("fairness").Info("audit complete",
		log.PhaseKey, log.PhaseAudit,
		log.DEOKey, report.DEO,
		log.GroupASizeKey, a.Positives,
		log.GroupBSizeKey, b.Positives,
	)

	return report, nil
}

func splitByGroup(yTrue, yPred, sensitive *mat.VecDense, groupAValue float64) (yTrueA, yPredA, yTrueB, yPredB *mat.VecDense, err error) {
	if yTrue == nil || yPred == nil || sensitive == nil {
		return nil, nil, nil, nil, errors.NewValueError("fairness.splitByGroup", "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, nil, nil, errors.NewValueError("fairness.splitByGroup", "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, nil, nil, errors.NewDimensionError("fairness.splitByGroup", n, yPred.Len(), 0)
	}
	if sensitive.Len() != n {
		return nil, nil, nil, nil, errors.NewDimensionError("fairness.splitByGroup", n, sensitive.Len(), 0)
	}

	var ta, pa, tb, pb []float64
	for i := 0; i < n; i++ {
		if sensitive.AtVec(i) == groupAValue {
			ta = append(ta, yTrue.AtVec(i))
			pa = append(pa, yPred.AtVec(i))
		} else {
			tb = append(tb, yTrue.AtVec(i))
			pb = append(pb, yPred.AtVec(i))
		}
	}

	return vecOrNil(ta), vecOrNil(pa), vecOrNil(tb), vecOrNil(pb), nil
}

func vecOrNil(v []float64) *mat.VecDense {
	if len(v) == 0 {
		return nil
	}
	return mat.NewVecDense(len(v), v)
}

// groupRate evaluates a metric on one subgroup. An empty subgroup is an
// undefined rate: warn and return 0.
func groupRate(metric func(yTrue, yPred *mat.VecDense) (float64, error), yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil {
		errors.Warn(errors.NewUndefinedMetricWarning("group_tpr", "empty group", 0))
		return 0, nil
	}
	return metric(yTrue, yPred)
}

func groupReport(name string, yTrue, yPred *mat.VecDense) (GroupReport, error) {
	report := GroupReport{Group: name}
	if yTrue == nil {
		errors.Warn(errors.NewUndefinedMetricWarning("group_report", "empty group "+name, 0))
		return report, nil
	}

	report.Size = yTrue.Len()
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == 1 {
			report.Positives++
		}
	}

	var err error
	report.TPR, err = metrics.TruePositiveRate(yTrue, yPred)
	if err != nil {
		return report, err
	}
	report.FPR, err = metrics.FalsePositiveRate(yTrue, yPred)
	if err != nil {
		return report, err
	}
	report.Accuracy, err = metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return report, err
	}
	return report, nil
}
