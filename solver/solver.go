// Package solver implements explicit Runge-Kutta ODE solvers with adaptive
// step-size control over dense state vectors.
//
// A Problem pairs a derivative function with an initial state and the time
// grid at which output is requested. The integrator steps adaptively between
// grid points but always lands exactly on them, so the observable output
// granularity is the caller's grid, not the solver's internal step size.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// Func computes the derivative du/dt given time t and state u.
type Func func(t float64, u []float64) []float64

var (
	// ErrMaxIters is returned when the step budget is exhausted before the
	// final requested time, bounding runaway integration on pathological
	// parameter sets.
	ErrMaxIters = errors.New("solver: maximum iteration count exceeded")

	// ErrDivergence is returned when the state becomes non-finite.
	ErrDivergence = errors.New("solver: integration diverged")

	// ErrBadGrid is returned for an output grid that is empty or not
	// strictly ascending.
	ErrBadGrid = errors.New("solver: output grid must be strictly ascending")
)

// Problem is an ODE initial value problem with a requested output grid.
type Problem struct {
	F      Func
	U0     []float64
	Labels []string  // one label per state component
	SaveAt []float64 // strictly ascending; SaveAt[0] is the initial time
}

// NewProblem validates and constructs a Problem. The initial state and the
// grid are copied so later mutation by the caller cannot affect the run.
func NewProblem(f Func, u0 []float64, labels []string, saveAt []float64) (*Problem, error) {
	if f == nil {
		return nil, errors.New("solver: derivative function is nil")
	}
	if len(labels) != len(u0) {
		return nil, fmt.Errorf("solver: %d labels for %d state components", len(labels), len(u0))
	}
	if len(saveAt) == 0 {
		return nil, ErrBadGrid
	}
	for i := 1; i < len(saveAt); i++ {
		if saveAt[i] <= saveAt[i-1] {
			return nil, fmt.Errorf("%w: t[%d]=%g follows t[%d]=%g",
				ErrBadGrid, i, saveAt[i], i-1, saveAt[i-1])
		}
	}
	return &Problem{
		F:      f,
		U0:     append([]float64(nil), u0...),
		Labels: append([]string(nil), labels...),
		SaveAt: append([]float64(nil), saveAt...),
	}, nil
}

// Solve integrates the problem using the given method and options.
// The returned Solution holds the state at exactly the requested grid times.
func Solve(prob *Problem, method *Method, opts *Options) (*Solution, error) {
	if method == nil {
		method = Tsit5()
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	n := len(prob.U0)
	f := prob.F
	numStages := len(method.C)

	tcur := prob.SaveAt[0]
	ucur := append([]float64(nil), prob.U0...)
	dtcur := opts.Dt
	nsteps := 0

	uOut := make([][]float64, 1, len(prob.SaveAt))
	uOut[0] = append([]float64(nil), ucur...)

	k := make([][]float64, numStages)
	ustage := make([]float64, n)

	for _, target := range prob.SaveAt[1:] {
		for tcur < target {
			if nsteps >= opts.Maxiters {
				return nil, fmt.Errorf("%w after %d steps at t=%g", ErrMaxIters, nsteps, tcur)
			}
			// Land exactly on the next requested output time. The cap is
			// local to this step so a short final step into a grid point
			// does not shrink the working step size.
			dt := dtcur
			if tcur+dt > target {
				dt = target - tcur
			}

			// Runge-Kutta stages
			k[0] = f(tcur, ucur)
			for stage := 1; stage < numStages; stage++ {
				tstage := tcur + method.C[stage]*dt
				copy(ustage, ucur)
				for j := 0; j < stage; j++ {
					aj := 0.0
					if len(method.A) > stage && len(method.A[stage]) > j {
						aj = method.A[stage][j]
					}
					if aj != 0 {
						scale := dt * aj
						for i := 0; i < n; i++ {
							ustage[i] += scale * k[j][i]
						}
					}
				}
				k[stage] = f(tstage, append([]float64(nil), ustage...))
			}

			// Candidate solution at the end of the step
			unext := append([]float64(nil), ucur...)
			for j := 0; j < len(method.B); j++ {
				if method.B[j] != 0 {
					scale := dt * method.B[j]
					for i := 0; i < n; i++ {
						unext[i] += scale * k[j][i]
					}
				}
			}

			// Embedded error estimate for adaptive stepping
			errEst := 0.0
			if opts.Adaptive {
				for i := 0; i < n; i++ {
					e := 0.0
					for j := 0; j < len(method.Bhat); j++ {
						e += dt * method.Bhat[j] * k[j][i]
					}
					scale := opts.Abstol + opts.Reltol*math.Max(math.Abs(ucur[i]), math.Abs(unext[i]))
					if scale == 0 {
						scale = opts.Abstol
					}
					if v := math.Abs(e) / scale; v > errEst {
						errEst = v
					}
				}
			}

			if !opts.Adaptive || errEst <= 1.0 || dt <= opts.Dtmin {
				// Accept
				tcur += dt
				ucur = unext
				nsteps++

				for i := 0; i < n; i++ {
					if math.IsNaN(ucur[i]) || math.IsInf(ucur[i], 0) {
						return nil, fmt.Errorf("%w: %s is not finite at t=%g",
							ErrDivergence, prob.Labels[i], tcur)
					}
				}

				// Update the working step only when this step actually used
				// it. A step capped to land on a grid point carries an error
				// estimate for the shortened dt, which says nothing about
				// the working step, so that one is left alone.
				if opts.Adaptive && errEst > 0 && dt == dtcur {
					factor := 0.9 * math.Pow(1.0/errEst, 1.0/float64(method.Order+1))
					factor = math.Min(factor, 5.0)
					dtcur = math.Min(opts.Dtmax, math.Max(opts.Dtmin, dt*factor))
				}
			} else {
				// Reject and shrink
				factor := 0.9 * math.Pow(1.0/errEst, 1.0/float64(method.Order+1))
				factor = math.Max(factor, 0.1)
				dtcur = math.Max(opts.Dtmin, dt*factor)
			}
		}
		uOut = append(uOut, append([]float64(nil), ucur...))
	}

	return &Solution{
		T:      append([]float64(nil), prob.SaveAt...),
		U:      uOut,
		Labels: prob.Labels,
		Steps:  nsteps,
	}, nil
}
