package fairness

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestSensitiveColumn(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 10,
		1, 20,
		0, 30,
	})

	s, err := SensitiveColumn(X, 0)
	if err != nil {
		t.Fatalf("SensitiveColumn failed: %v", err)
	}
	want := []float64{0, 1, 0}
	for i, v := range want {
		if s.AtVec(i) != v {
			t.Errorf("s[%d] = %v, want %v", i, s.AtVec(i), v)
		}
	}

	if _, err := SensitiveColumn(X, 2); err == nil {
		t.Error("expected error for out-of-range column")
	}
	if _, err := SensitiveColumn(X, -1); err == nil {
		t.Error("expected error for negative column")
	}
}

func TestDEO(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		sensitive *mat.VecDense
		want      float64
	}{
		{
			// Group A: positives (1,1) both predicted, TPR 1.
			// Group B: positives (1,1), one predicted, TPR 0.5.
			name:      "unequal opportunity",
			yTrue:     vec(1, 1, 0, 1, 1, 0),
			yPred:     vec(1, 1, 0, 1, 0, 0),
			sensitive: vec(0, 0, 0, 1, 1, 1),
			want:      0.5,
		},
		{
			name:      "equal opportunity",
			yTrue:     vec(1, 0, 1, 0),
			yPred:     vec(1, 0, 1, 0),
			sensitive: vec(0, 0, 1, 1),
			want:      0,
		},
		{
			// TPR_A = 0, TPR_B = 1; absolute difference regardless of sign.
			name:      "favoring group B",
			yTrue:     vec(1, 1, 1, 1),
			yPred:     vec(0, 0, 1, 1),
			sensitive: vec(0, 0, 1, 1),
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DEO(tt.yTrue, tt.yPred, tt.sensitive, 0)
			if err != nil {
				t.Fatalf("DEO failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DEO = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDEOEmptyGroup(t *testing.T) {
	captured := captureWarnings(t)

	// Every example belongs to group A; the group-B rate is undefined and
	// counts as 0, so the DEO collapses to TPR_A.
	yTrue := vec(1, 1, 0)
	yPred := vec(1, 0, 0)
	sensitive := vec(0, 0, 0)

	got, err := DEO(yTrue, yPred, sensitive, 0)
	if err != nil {
		t.Fatalf("DEO failed: %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("DEO = %v, want 0.5", got)
	}

	if len(*captured) == 0 {
		t.Fatal("expected a warning for the empty group")
	}
	var w *errors.UndefinedMetricWarning
	if !errors.As((*captured)[0], &w) {
		t.Fatalf("expected UndefinedMetricWarning, got %T", (*captured)[0])
	}
}

func TestDEOValidation(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		sensitive *mat.VecDense
	}{
		{"nil vector", nil, vec(1), vec(0)},
		{"length mismatch pred", vec(1, 0), vec(1), vec(0, 0)},
		{"length mismatch sensitive", vec(1, 0), vec(1, 0), vec(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DEO(tt.yTrue, tt.yPred, tt.sensitive, 0); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAudit(t *testing.T) {
	// Group A: 3 examples, positives (1,1), predictions hit both, one false
	// positive. Group B: 3 examples, positives (1,1), predictions hit one.
	yTrue := vec(1, 1, 0, 1, 1, 0)
	yPred := vec(1, 1, 1, 1, 0, 0)
	sensitive := vec(0, 0, 0, 1, 1, 1)

	report, err := Audit(yTrue, yPred, sensitive, 0)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}

	if report.A.Size != 3 || report.B.Size != 3 {
		t.Errorf("group sizes = (%d, %d), want (3, 3)", report.A.Size, report.B.Size)
	}
	if report.A.Positives != 2 || report.B.Positives != 2 {
		t.Errorf("group positives = (%d, %d), want (2, 2)", report.A.Positives, report.B.Positives)
	}
	if math.Abs(report.A.TPR-1.0) > 1e-12 {
		t.Errorf("TPR_A = %v, want 1.0", report.A.TPR)
	}
	if math.Abs(report.B.TPR-0.5) > 1e-12 {
		t.Errorf("TPR_B = %v, want 0.5", report.B.TPR)
	}
	if math.Abs(report.A.FPR-1.0) > 1e-12 {
		t.Errorf("FPR_A = %v, want 1.0", report.A.FPR)
	}
	if math.Abs(report.B.FPR-0.0) > 1e-12 {
		t.Errorf("FPR_B = %v, want 0.0", report.B.FPR)
	}
	if math.Abs(report.DEO-0.5) > 1e-12 {
		t.Errorf("DEO = %v, want 0.5", report.DEO)
	}
	if math.Abs(report.A.Accuracy-2.0/3.0) > 1e-12 {
		t.Errorf("accuracy_A = %v, want 2/3", report.A.Accuracy)
	}
}

func TestGroupTPR(t *testing.T) {
	yTrue := vec(1, 1, 1, 1)
	yPred := vec(1, 0, 1, 1)
	sensitive := vec(0, 0, 1, 1)

	tprA, tprB, err := GroupTPR(yTrue, yPred, sensitive, 0)
	if err != nil {
		t.Fatalf("GroupTPR failed: %v", err)
	}
	if math.Abs(tprA-0.5) > 1e-12 {
		t.Errorf("TPR_A = %v, want 0.5", tprA)
	}
	if math.Abs(tprB-1.0) > 1e-12 {
		t.Errorf("TPR_B = %v, want 1.0", tprB)
	}
}
