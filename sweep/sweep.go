// Package sweep analyzes how outbreak outcomes change with the rate
// parameters: one-at-a-time sensitivity ranking, single-parameter sweeps,
// and gradient estimation. Sweeps over independent parameter sets share no
// state, so the parallel variants simply fan out goroutines.
package sweep

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/solver"
)

// Scorer evaluates a completed trajectory and returns a score.
type Scorer func(tr *epidemic.Trajectory) float64

// PeakScorer returns the peak value of a named compartment.
func PeakScorer(label string) Scorer {
	return func(tr *epidemic.Trajectory) float64 {
		_, v := tr.Peak(label)
		return v
	}
}

// FinalScorer returns the final value of a named compartment.
func FinalScorer(label string) Scorer {
	return func(tr *epidemic.Trajectory) float64 {
		series := tr.Series(label)
		if len(series) == 0 {
			return 0
		}
		return series[len(series)-1]
	}
}

// AttackRateScorer returns the fraction of the population infected by the
// end of the run.
func AttackRateScorer() Scorer {
	return func(tr *epidemic.Trajectory) float64 {
		return tr.AttackRate()
	}
}

// paramField maps a parameter name to its field in Parameters.
// Names match the JSON tags of model.Parameters.
var paramFields = map[string]func(*model.Parameters) *float64{
	"beta_p": func(p *model.Parameters) *float64 { return &p.Bp },
	"beta_a": func(p *model.Parameters) *float64 { return &p.Ba },
	"beta_s": func(p *model.Parameters) *float64 { return &p.Bs },
	"tau_e":  func(p *model.Parameters) *float64 { return &p.TauE },
	"tau_p":  func(p *model.Parameters) *float64 { return &p.TauP },
	"tau_i":  func(p *model.Parameters) *float64 { return &p.TauI },
	"tau_d":  func(p *model.Parameters) *float64 { return &p.TauD },
	"f":      func(p *model.Parameters) *float64 { return &p.F },
	"d":      func(p *model.Parameters) *float64 { return &p.D },
}

// ParamNames returns the sweepable parameter names in a stable order.
func ParamNames() []string {
	names := make([]string, 0, len(paramFields))
	for name := range paramFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam returns a copy of p with the named parameter set to value.
func SetParam(p model.Parameters, name string, value float64) (model.Parameters, error) {
	field, ok := paramFields[name]
	if !ok {
		return p, fmt.Errorf("sweep: unknown parameter %q", name)
	}
	*field(&p) = value
	return p, nil
}

// GetParam reads the named parameter from p.
func GetParam(p model.Parameters, name string) (float64, error) {
	field, ok := paramFields[name]
	if !ok {
		return 0, fmt.Errorf("sweep: unknown parameter %q", name)
	}
	return *field(&p), nil
}

// Result holds the outcome of a one-at-a-time sensitivity analysis.
type Result struct {
	Baseline float64            // score with unmodified parameters
	Scores   map[string]float64 // score with each parameter perturbed
	Impact   map[string]float64 // change from baseline
	Ranking  []RankedParam      // parameters sorted by absolute impact
}

// RankedParam pairs a parameter name with its impact on the score.
type RankedParam struct {
	Name   string
	Impact float64
}

// Analyzer runs perturbed simulations of one scenario and scores them.
type Analyzer struct {
	scenario *epidemic.Scenario
	opts     *solver.Options
	scorer   Scorer
	bump     float64 // relative perturbation for Analyze
}

// NewAnalyzer creates an analyzer for the scenario. The default
// perturbation scales each parameter up by 10%.
func NewAnalyzer(s *epidemic.Scenario, scorer Scorer) *Analyzer {
	return &Analyzer{
		scenario: s,
		opts:     solver.DefaultOptions(),
		scorer:   scorer,
		bump:     0.1,
	}
}

// WithOptions sets the solver options used for every run.
func (a *Analyzer) WithOptions(opts *solver.Options) *Analyzer {
	a.opts = opts
	return a
}

// WithBump sets the relative perturbation used by Analyze.
func (a *Analyzer) WithBump(bump float64) *Analyzer {
	a.bump = bump
	return a
}

// simulate runs the scenario with the given parameters and scores it.
func (a *Analyzer) simulate(p model.Parameters) (float64, error) {
	tr, err := epidemic.Run(p, a.scenario.Initial, a.scenario.Grid(), nil, a.opts)
	if err != nil {
		return 0, err
	}
	return a.scorer(tr), nil
}

// Analyze perturbs each rate parameter in turn and ranks the parameters
// by their impact on the score.
func (a *Analyzer) Analyze() (*Result, error) {
	result := &Result{
		Scores: make(map[string]float64),
		Impact: make(map[string]float64),
	}

	baseline, err := a.simulate(a.scenario.Parameters)
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	for _, name := range ParamNames() {
		orig, _ := GetParam(a.scenario.Parameters, name)
		perturbed, err := SetParam(a.scenario.Parameters, name, perturb(name, orig, a.bump))
		if err != nil {
			return nil, err
		}
		score, err := a.simulate(perturbed)
		if err != nil {
			return nil, fmt.Errorf("sweep: perturbing %s: %w", name, err)
		}
		result.Scores[name] = score
		result.Impact[name] = score - baseline
	}

	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// AnalyzeParallel is Analyze with one goroutine per parameter.
func (a *Analyzer) AnalyzeParallel() (*Result, error) {
	result := &Result{
		Scores: make(map[string]float64),
		Impact: make(map[string]float64),
	}

	baseline, err := a.simulate(a.scenario.Parameters)
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for _, name := range ParamNames() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			orig, _ := GetParam(a.scenario.Parameters, name)
			perturbed, err := SetParam(a.scenario.Parameters, name, perturb(name, orig, a.bump))
			if err == nil {
				var score float64
				score, err = a.simulate(perturbed)
				if err == nil {
					mu.Lock()
					result.Scores[name] = score
					result.Impact[name] = score - baseline
					mu.Unlock()
					return
				}
			}
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep: perturbing %s: %w", name, err)
			}
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// perturb scales a parameter up by the relative bump, keeping the
// fraction parameters inside [0,1].
func perturb(name string, value, bump float64) float64 {
	v := value * (1 + bump)
	if (name == "f" || name == "d") && v > 1 {
		v = 1
	}
	return v
}

// rankByImpact sorts parameters by absolute impact, descending.
func rankByImpact(impact map[string]float64) []RankedParam {
	ranking := make([]RankedParam, 0, len(impact))
	for name, imp := range impact {
		ranking = append(ranking, RankedParam{Name: name, Impact: imp})
	}
	sort.Slice(ranking, func(i, j int) bool {
		return math.Abs(ranking[i].Impact) > math.Abs(ranking[j].Impact)
	})
	return ranking
}

// Gradient estimates the derivative of the score with respect to one
// parameter by central difference.
func (a *Analyzer) Gradient(name string, h float64) (float64, error) {
	orig, err := GetParam(a.scenario.Parameters, name)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		h = 0.01 * orig
		if h == 0 {
			h = 0.01
		}
	}

	plus, err := SetParam(a.scenario.Parameters, name, orig+h)
	if err != nil {
		return 0, err
	}
	scorePlus, err := a.simulate(plus)
	if err != nil {
		return 0, err
	}

	lower := orig - h
	if lower < 0 {
		lower = 0
	}
	minus, err := SetParam(a.scenario.Parameters, name, lower)
	if err != nil {
		return 0, err
	}
	scoreMinus, err := a.simulate(minus)
	if err != nil {
		return 0, err
	}

	return (scorePlus - scoreMinus) / (orig + h - lower), nil
}
