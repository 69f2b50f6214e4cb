package solver

import (
	"fmt"
	"math"
)

// ImplicitEuler integrates using the backward Euler method, solving the
// implicit equation at each step by fixed-point iteration. A-stable, so
// it stays well behaved on stiff systems where explicit methods would
// need very small steps. Fixed step size; Dt from the options.
func ImplicitEuler(prob *Problem, opts *Options) (*Solution, error) {
	if opts == nil {
		opts = StiffOptions()
	}

	n := len(prob.U0)
	f := prob.F

	const maxFixedPoint = 50
	fixedPointTol := opts.Abstol * 10

	tcur := prob.SaveAt[0]
	ucur := append([]float64(nil), prob.U0...)
	nsteps := 0

	uOut := make([][]float64, 1, len(prob.SaveAt))
	uOut[0] = append([]float64(nil), ucur...)

	for _, target := range prob.SaveAt[1:] {
		for tcur < target {
			if nsteps >= opts.Maxiters {
				return nil, fmt.Errorf("%w after %d steps at t=%g", ErrMaxIters, nsteps, tcur)
			}
			dtcur := opts.Dt
			if tcur+dtcur > target {
				dtcur = target - tcur
			}
			tnext := tcur + dtcur

			// u_{n+1} = u_n + dt·f(t_{n+1}, u_{n+1}), iterated from an
			// explicit Euler guess.
			unext := append([]float64(nil), ucur...)
			du := f(tcur, ucur)
			for i := 0; i < n; i++ {
				unext[i] += dtcur * du[i]
			}

			for iter := 0; iter < maxFixedPoint; iter++ {
				dunext := f(tnext, unext)
				maxDiff := 0.0
				unew := make([]float64, n)
				for i := 0; i < n; i++ {
					unew[i] = ucur[i] + dtcur*dunext[i]
					if diff := math.Abs(unew[i] - unext[i]); diff > maxDiff {
						maxDiff = diff
					}
				}
				unext = unew
				if maxDiff < fixedPointTol {
					break
				}
			}

			for i := 0; i < n; i++ {
				if math.IsNaN(unext[i]) || math.IsInf(unext[i], 0) {
					return nil, fmt.Errorf("%w: %s is not finite at t=%g",
						ErrDivergence, prob.Labels[i], tnext)
				}
			}

			tcur = tnext
			ucur = unext
			nsteps++
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
