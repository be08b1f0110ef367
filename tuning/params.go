// Package tuning implements hyperparameter search over a cross-validated
// model factory, with linear- and log-scaled parameter ranges.
package tuning

import (
	"math"
	"math/rand"

	"github.com/fairgo-ml/fairgo/pkg/errors"
)

// Scale selects how a continuous range is traversed. Log scaling searches
// ranges spanning orders of magnitude (regularization strengths, learning
// rates) far more efficiently than linear scaling.
type Scale int

const (
	// ScaleLinear samples and grids the range uniformly.
	ScaleLinear Scale = iota
	// ScaleLog samples and grids the range uniformly in log space.
	// Requires Min > 0.
	ScaleLog
)

// String returns the name of the scale.
func (s Scale) String() string {
	switch s {
	case ScaleLinear:
		return "linear"
	case ScaleLog:
		return "log"
	default:
		return "unknown"
	}
}

// ContinuousParameter is a float-valued hyperparameter range.
type ContinuousParameter struct {
	Name string
	Min  float64
	Max  float64
	Scale
}

// Validate checks the range.
func (p ContinuousParameter) Validate() error {
	if p.Name == "" {
		return errors.NewValidationError("name", "must not be empty", p.Name)
	}
	if p.Min >= p.Max {
		return errors.NewValidationError(p.Name, "min must be less than max", p.Min)
	}
	if p.Scale == ScaleLog && p.Min <= 0 {
		return errors.NewValidationError(p.Name, "log scale requires min > 0", p.Min)
	}
	return nil
}

// Sample draws a value from the range under the parameter's scale.
func (p ContinuousParameter) Sample(rng *rand.Rand) float64 {
	r := rng.Float64()
	if p.Scale == ScaleLog {
		logMin, logMax := math.Log(p.Min), math.Log(p.Max)
		return math.Exp(logMin + r*(logMax-logMin))
	}
	return p.Min + r*(p.Max-p.Min)
}

// Grid returns n values evenly spaced under the parameter's scale,
// endpoints included.
func (p ContinuousParameter) Grid(n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	if p.Scale == ScaleLog {
		logMin, logMax := math.Log(p.Min), math.Log(p.Max)
		step := (logMax - logMin) / float64(n-1)
		for i := range out {
			out[i] = math.Exp(logMin + float64(i)*step)
		}
		return out
	}
	step := (p.Max - p.Min) / float64(n-1)
	for i := range out {
		out[i] = p.Min + float64(i)*step
	}
	return out
}

// IntegerParameter is an int-valued hyperparameter range, inclusive on both
// ends.
type IntegerParameter struct {
	Name string
	Min  int
	Max  int
}

// Validate checks the range.
func (p IntegerParameter) Validate() error {
	if p.Name == "" {
		return errors.NewValidationError("name", "must not be empty", p.Name)
	}
	if p.Min > p.Max {
		return errors.NewValidationError(p.Name, "min must not exceed max", p.Min)
	}
	return nil
}

// Sample draws a value uniformly from the range.
func (p IntegerParameter) Sample(rng *rand.Rand) int {
	return p.Min + rng.Intn(p.Max-p.Min+1)
}

// Grid returns every value in the range.
func (p IntegerParameter) Grid() []int {
	out := make([]int, 0, p.Max-p.Min+1)
	for v := p.Min; v <= p.Max; v++ {
		out = append(out, v)
	}
	return out
}

// CategoricalParameter is a hyperparameter drawn from a fixed value set.
type CategoricalParameter struct {
	Name   string
	Values []interface{}
}

// Validate checks the value set.
func (p CategoricalParameter) Validate() error {
	if p.Name == "" {
		return errors.NewValidationError("name", "must not be empty", p.Name)
	}
	if len(p.Values) == 0 {
		return errors.NewValidationError(p.Name, "must have at least one value", len(p.Values))
	}
	return nil
}

// Sample draws a value uniformly from the set.
func (p CategoricalParameter) Sample(rng *rand.Rand) interface{} {
	return p.Values[rng.Intn(len(p.Values))]
}

// Space is the full hyperparameter search space.
type Space struct {
	Continuous  []ContinuousParameter
	Integer     []IntegerParameter
	Categorical []CategoricalParameter
}

// Validate checks every range in the space and rejects duplicate names.
func (s Space) Validate() error {
	seen := make(map[string]bool)
	check := func(name string, err error) error {
		if err != nil {
			return err
		}
		if seen[name] {
			return errors.NewValidationError(name, "duplicate parameter name", name)
		}
		seen[name] = true
		return nil
	}

	for _, p := range s.Continuous {
		if err := check(p.Name, p.Validate()); err != nil {
			return err
		}
	}
	for _, p := range s.Integer {
		if err := check(p.Name, p.Validate()); err != nil {
			return err
		}
	}
	for _, p := range s.Categorical {
		if err := check(p.Name, p.Validate()); err != nil {
			return err
		}
	}
	if len(seen) == 0 {
		return errors.NewValidationError("space", "must define at least one parameter", 0)
	}
	return nil
}

// Sample draws one full parameter assignment from the space.
func (s Space) Sample(rng *rand.Rand) map[string]interface{} {
	params := make(map[string]interface{})
	for _, p := range s.Continuous {
		params[p.Name] = p.Sample(rng)
	}
	for _, p := range s.Integer {
		params[p.Name] = p.Sample(rng)
	}
	for _, p := range s.Categorical {
		params[p.Name] = p.Sample(rng)
	}
	return params
}

// GridCandidates expands the cartesian product of every parameter's grid.
// Continuous grids use the given resolution.
func (s Space) GridCandidates(resolution int) []map[string]interface{} {
	candidates := []map[string]interface{}{{}}

	expand := func(name string, values []interface{}) {
		next := make([]map[string]interface{}, 0, len(candidates)*len(values))
		for _, base := range candidates {
			for _, v := range values {
				params := make(map[string]interface{}, len(base)+1)
				for k, bv := range base {
					params[k] = bv
				}
				params[name] = v
				next = append(next, params)
			}
		}
		candidates = next
	}

	for _, p := range s.Continuous {
		grid := p.Grid(resolution)
		values := make([]interface{}, len(grid))
		for i, v := range grid {
			values[i] = v
		}
		expand(p.Name, values)
	}
	for _, p := range s.Integer {
		grid := p.Grid()
		values := make([]interface{}, len(grid))
		for i, v := range grid {
			values[i] = v
		}
		expand(p.Name, values)
	}
	for _, p := range s.Categorical {
		expand(p.Name, p.Values)
	}

	return candidates
}
