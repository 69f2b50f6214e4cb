package sweep

import (
	"fmt"
	"math"

	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/nextgen"
)

// SweepResult holds scores across a range of values for one parameter.
type SweepResult struct {
	Parameter string
	Values    []float64
	Scores    []float64
	Best      struct {
		Value float64
		Score float64
	}
	Worst struct {
		Value float64
		Score float64
	}
}

// SweepParam runs the scenario once per value of the named parameter.
func (a *Analyzer) SweepParam(name string, values []float64) (*SweepResult, error) {
	result := &SweepResult{
		Parameter: name,
		Values:    values,
		Scores:    make([]float64, len(values)),
	}

	bestScore := math.Inf(-1)
	worstScore := math.Inf(1)

	for i, val := range values {
		p, err := SetParam(a.scenario.Parameters, name, val)
		if err != nil {
			return nil, err
		}
		score, err := a.simulate(p)
		if err != nil {
			return nil, err
		}
		result.Scores[i] = score

		if score > bestScore {
			bestScore = score
			result.Best.Value = val
			result.Best.Score = score
		}
		if score < worstScore {
			worstScore = score
			result.Worst.Value = val
			result.Worst.Score = score
		}
	}

	return result, nil
}

// SweepParamRange sweeps evenly spaced values in [min, max]. A range
// needs at least two points to span.
func (a *Analyzer) SweepParamRange(name string, min, max float64, steps int) (*SweepResult, error) {
	if steps < 2 {
		return nil, fmt.Errorf("sweep: range over %s needs at least 2 steps, got %d", name, steps)
	}
	return a.SweepParam(name, spread(min, max, steps))
}

// SweepR0 computes R0 for each value of the named parameter. No
// integration is involved, so this is cheap even for wide ranges.
func SweepR0(base model.Parameters, name string, values []float64) (*SweepResult, error) {
	result := &SweepResult{
		Parameter: name,
		Values:    values,
		Scores:    make([]float64, len(values)),
	}

	bestScore := math.Inf(-1)
	worstScore := math.Inf(1)

	for i, val := range values {
		p, err := SetParam(base, name, val)
		if err != nil {
			return nil, err
		}
		r0, err := nextgen.R0(p)
		if err != nil {
			return nil, err
		}
		result.Scores[i] = r0

		if r0 > bestScore {
			bestScore = r0
			result.Best.Value = val
			result.Best.Score = r0
		}
		if r0 < worstScore {
			worstScore = r0
			result.Worst.Value = val
			result.Worst.Score = r0
		}
	}

	return result, nil
}

// SweepR0Range is SweepR0 over evenly spaced values in [min, max]. A
// range needs at least two points to span.
func SweepR0Range(base model.Parameters, name string, min, max float64, steps int) (*SweepResult, error) {
	if steps < 2 {
		return nil, fmt.Errorf("sweep: range over %s needs at least 2 steps, got %d", name, steps)
	}
	return SweepR0(base, name, spread(min, max, steps))
}

// spread returns steps evenly spaced values from min to max inclusive.
func spread(min, max float64, steps int) []float64 {
	values := make([]float64, steps)
	for i := 0; i < steps; i++ {
		values[i] = min + (max-min)*float64(i)/float64(steps-1)
	}
	return values
}
