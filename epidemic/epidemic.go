// Package epidemic runs compartment trajectories for the outbreak model.
//
// Run is a pure function of (parameters, initial state, time grid): it
// validates its inputs before any numeric work, integrates the ODE system,
// checks the physical invariants of the result, and returns named
// per-compartment series. Independent runs share no state and may execute
// concurrently.
package epidemic

import (
	"fmt"
	"math"

	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/solver"
)

// Trajectory is the result of one integration run: the compartment states
// sampled at the requested time points. Immutable once returned.
type Trajectory struct {
	T            []float64
	U            [][]float64
	Compartments []string
	Params       model.Parameters
	Steps        int
}

// Series extracts the time series for a named compartment, or nil for an
// unknown label.
func (tr *Trajectory) Series(label string) []float64 {
	idx := -1
	for i, l := range tr.Compartments {
		if l == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(tr.U))
	for i, u := range tr.U {
		out[i] = u[idx]
	}
	return out
}

// At returns the state at output index i, or nil if out of range.
func (tr *Trajectory) At(i int) []float64 {
	if i < 0 || i >= len(tr.U) {
		return nil
	}
	return tr.U[i]
}

// Final returns the state at the last output time, or nil if empty.
func (tr *Trajectory) Final() []float64 {
	if len(tr.U) == 0 {
		return nil
	}
	return tr.U[len(tr.U)-1]
}

// Peak returns the time and value of the maximum of a named compartment.
func (tr *Trajectory) Peak(label string) (t, v float64) {
	series := tr.Series(label)
	if len(series) == 0 {
		return 0, 0
	}
	maxIdx := 0
	for i, val := range series {
		if val > series[maxIdx] {
			maxIdx = i
		}
	}
	return tr.T[maxIdx], series[maxIdx]
}

// AttackRate returns the fraction of the population no longer susceptible
// at the end of the run.
func (tr *Trajectory) AttackRate() float64 {
	final := tr.Final()
	if final == nil {
		return 0
	}
	return (tr.Params.N - final[model.S]) / tr.Params.N
}

// Grid returns n evenly spaced time points from t0 to tf inclusive.
func Grid(t0, tf float64, n int) []float64 {
	if n < 2 {
		return []float64{t0}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + (tf-t0)*float64(i)/float64(n-1)
	}
	out[n-1] = tf
	return out
}

// Run integrates the outbreak ODE system for the given parameters from the
// initial state, producing output at exactly the requested grid times.
// A nil opts uses solver.EpidemicOptions, a nil method uses Tsit5.
//
// Validation errors (invalid parameters, invalid initial state, bad grid)
// are returned before any integration happens. After integration the
// trajectory is checked against the physical invariants: no compartment
// may be negative beyond tolerance and the population total must stay at
// N. A violation is reported as solver.ErrDivergence rather than returned
// as data.
func Run(p model.Parameters, u0 []float64, grid []float64, method *solver.Method, opts *solver.Options) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateInitialState(p, u0); err != nil {
		return nil, err
	}

	prob, err := solver.NewProblem(solver.Func(model.Derivative(p)), u0, model.Compartments, grid)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = solver.EpidemicOptions()
	}
	sol, err := solver.Solve(prob, method, opts)
	if err != nil {
		return nil, err
	}

	tr := &Trajectory{
		T:            sol.T,
		U:            sol.U,
		Compartments: sol.Labels,
		Params:       p,
		Steps:        sol.Steps,
	}
	if err := checkInvariants(tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// checkInvariants verifies non-negativity and mass conservation at every
// output point, within a tolerance proportional to the population size.
func checkInvariants(tr *Trajectory) error {
	tol := model.StateTolerance * tr.Params.N
	for i, u := range tr.U {
		total := 0.0
		for j, v := range u {
			if v < -tol {
				return fmt.Errorf("%w: %s = %g at t=%g",
					solver.ErrDivergence, tr.Compartments[j], v, tr.T[i])
			}
			total += v
		}
		if math.Abs(total-tr.Params.N) > tol {
			return fmt.Errorf("%w: population total %g at t=%g, want %g",
				solver.ErrDivergence, total, tr.T[i], tr.Params.N)
		}
	}
	return nil
}
