package model

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the validation taxonomy. Typed errors below carry
// the offending field and unwrap to these.
var (
	ErrInvalidParameter    = errors.New("model: invalid parameter")
	ErrInvalidInitialState = errors.New("model: invalid initial state")
)

// StateTolerance is the relative tolerance used when checking that an
// initial state sums to the population size N.
const StateTolerance = 1e-6

// ParameterError reports a parameter that failed validation.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("model: invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// StateError reports an initial state that failed validation.
type StateError struct {
	Compartment string
	Value       float64
	Reason      string
}

func (e *StateError) Error() string {
	if e.Compartment == "" {
		return fmt.Sprintf("model: invalid initial state: %s", e.Reason)
	}
	return fmt.Sprintf("model: invalid initial state %s=%g: %s", e.Compartment, e.Value, e.Reason)
}

func (e *StateError) Unwrap() error { return ErrInvalidInitialState }

// Validate checks the parameter invariants: strictly positive durations,
// non-negative transmission rates, f and d in [0,1], and N > 0.
// The first violation is returned with the offending field named.
// Values are never clamped or corrected.
func (p Parameters) Validate() error {
	rates := []struct {
		name string
		val  float64
	}{
		{"beta_p", p.Bp},
		{"beta_a", p.Ba},
		{"beta_s", p.Bs},
	}
	for _, r := range rates {
		if r.val < 0 || math.IsNaN(r.val) || math.IsInf(r.val, 0) {
			return &ParameterError{Field: r.name, Value: r.val, Reason: "transmission rate must be non-negative and finite"}
		}
	}

	durations := []struct {
		name string
		val  float64
	}{
		{"tau_e", p.TauE},
		{"tau_p", p.TauP},
		{"tau_i", p.TauI},
		{"tau_d", p.TauD},
	}
	for _, d := range durations {
		if !(d.val > 0) || math.IsInf(d.val, 0) {
			return &ParameterError{Field: d.name, Value: d.val, Reason: "duration must be strictly positive and finite"}
		}
	}

	if p.F < 0 || p.F > 1 || math.IsNaN(p.F) {
		return &ParameterError{Field: "f", Value: p.F, Reason: "asymptomatic fraction must be in [0,1]"}
	}
	if p.D < 0 || p.D > 1 || math.IsNaN(p.D) {
		return &ParameterError{Field: "d", Value: p.D, Reason: "case fatality fraction must be in [0,1]"}
	}
	if !(p.N > 0) || math.IsInf(p.N, 0) {
		return &ParameterError{Field: "n", Value: p.N, Reason: "population size must be strictly positive and finite"}
	}
	return nil
}

// ValidateInitialState checks that u0 has six non-negative components
// summing to p.N within StateTolerance·N.
func ValidateInitialState(p Parameters, u0 []float64) error {
	if len(u0) != NumCompartments {
		return &StateError{Reason: fmt.Sprintf("expected %d compartments, got %d", NumCompartments, len(u0))}
	}
	for i, v := range u0 {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &StateError{Compartment: Compartments[i], Value: v, Reason: "compartment must be non-negative and finite"}
		}
	}
	if total := Total(u0); math.Abs(total-p.N) > StateTolerance*p.N {
		return &StateError{Reason: fmt.Sprintf("compartments sum to %g, want N=%g", total, p.N)}
	}
	return nil
}
