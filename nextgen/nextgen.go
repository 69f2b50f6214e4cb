// Package nextgen computes the basic reproduction number R0 from the
// linearization of the outbreak model at the disease-free equilibrium.
//
// The linearization is taken over the four infected sub-compartments
// (E, Ip, Ia, Is). New infections appear through the transmission matrix F,
// progression and removal move mass through the transition matrix V, and
// R0 is the dominant eigenvalue of the next-generation matrix G = F·V⁻¹.
package nextgen

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/outbreak-xyz/go-outbreak/model"
)

// Infected sub-compartment order within F and V: E, Ip, Ia, Is.
const dim = 4

var (
	// ErrSingular is returned when V cannot be inverted. Unreachable for
	// a parameter set that passes model validation; kept as a guard.
	ErrSingular = errors.New("nextgen: transition matrix is singular")

	// ErrEigen is returned when the eigendecomposition of G fails.
	ErrEigen = errors.New("nextgen: eigendecomposition failed")
)

// Transmission builds the 4×4 transmission matrix F. Only the E row is
// nonzero: new exposures arise from contact with the three infectious
// sub-stages. At the disease-free equilibrium S/N → 1, so the entries are
// the unscaled transmission rates.
//
// The symptomatic column carries Ba rather than Bs: Bs enters the
// trajectory ODE but not this linearization. See DESIGN.md.
func Transmission(p model.Parameters) *mat.Dense {
	f := mat.NewDense(dim, dim, nil)
	f.Set(0, 1, p.Bp)
	f.Set(0, 2, p.Ba)
	f.Set(0, 3, p.Ba)
	return f
}

// Transition builds the 4×4 transition matrix V. V·x is the net outflow
// from each infected sub-compartment: diagonal entries are outflow rates,
// off-diagonal entries are inflows from upstream stages (negative by this
// sign convention). Recovery and death from Is are competing hazards with
// combined rate (1−d)/τI + d/τD.
func Transition(p model.Parameters) *mat.Dense {
	v := mat.NewDense(dim, dim, nil)
	v.Set(0, 0, 1/p.TauE)
	v.Set(1, 0, -1/p.TauE)
	v.Set(1, 1, 1/p.TauP)
	v.Set(2, 1, -p.F/p.TauP)
	v.Set(2, 2, 1/p.TauI)
	v.Set(3, 1, -(1-p.F)/p.TauP)
	v.Set(3, 3, (1-p.D)/p.TauI+p.D/p.TauD)
	return v
}

// NextGeneration returns G = F·V⁻¹ for the given parameters.
func NextGeneration(p model.Parameters) (*mat.Dense, error) {
	var vinv mat.Dense
	if err := vinv.Inverse(Transition(p)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	var g mat.Dense
	g.Mul(Transmission(p), &vinv)
	return &g, nil
}

// R0 computes the basic reproduction number: the eigenvalue of the
// next-generation matrix with the largest real part. The eigenvalue list
// is scanned in full; no ordering of the returned eigenvalues is assumed.
// N is not used: R0 is independent of population size in this formalism.
func R0(p model.Parameters) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	g, err := NextGeneration(p)
	if err != nil {
		return 0, err
	}

	var eig mat.Eigen
	if ok := eig.Factorize(g, mat.EigenNone); !ok {
		return 0, ErrEigen
	}

	dominant := 0.0
	for i, v := range eig.Values(nil) {
		if i == 0 || real(v) > dominant {
			dominant = real(v)
		}
	}
	return dominant, nil
}
