// Package model defines the compartment state, the rate parameters, and the
// right-hand side of the SEIR outbreak ODE system.
//
// The model splits the infectious period into pre-symptomatic (Ip),
// asymptomatic (Ia) and symptomatic (Is) sub-stages:
//
//	S → E → Ip → {Ia, Is} → R
//
// The population is closed: recovery and disease-induced death both flow
// into R, so the six compartments always sum to the population size N.
package model

// Compartment indices into a state vector.
const (
	S = iota
	E
	Ip
	Ia
	Is
	R
)

// NumCompartments is the dimension of the state vector.
const NumCompartments = 6

// Compartments lists the compartment labels in state-vector order.
var Compartments = []string{"S", "E", "Ip", "Ia", "Is", "R"}

// Parameters holds the rate parameters for one simulation run.
// A Parameters value is passed by value everywhere and never mutated,
// so independent runs can share one safely.
type Parameters struct {
	Bp   float64 `json:"beta_p"` // transmission rate of pre-symptomatic individuals (1/day)
	Ba   float64 `json:"beta_a"` // transmission rate of asymptomatic individuals (1/day)
	Bs   float64 `json:"beta_s"` // transmission rate of symptomatic individuals (1/day)
	TauE float64 `json:"tau_e"`  // mean latent duration (days)
	TauP float64 `json:"tau_p"`  // mean pre-symptomatic duration (days)
	TauI float64 `json:"tau_i"`  // mean infectious duration (days)
	TauD float64 `json:"tau_d"`  // mean symptom-onset-to-death duration (days)
	F    float64 `json:"f"`      // fraction of infections that stay asymptomatic
	D    float64 `json:"d"`      // case fatality fraction
	N    float64 `json:"n"`      // total population size
}

// RHS computes the derivative du/dt given time t and state u.
type RHS func(t float64, u []float64) []float64

// Derivative returns the ODE right-hand side bound to p.
// The returned function closes over its own copy of the parameters,
// so concurrent runs with different parameter sets do not interact.
//
// The force of infection (S/N)·(βp·Ip + βa·Ia + βs·Is) leaves S and
// enters E with opposite sign, and every other term moves mass between
// compartments, so the six derivatives sum to zero identically.
func Derivative(p Parameters) RHS {
	return func(_ float64, u []float64) []float64 {
		foi := u[S] / p.N * (p.Bp*u[Ip] + p.Ba*u[Ia] + p.Bs*u[Is])

		du := make([]float64, NumCompartments)
		du[S] = -foi
		du[E] = foi - u[E]/p.TauE
		du[Ip] = u[E]/p.TauE - u[Ip]/p.TauP
		du[Ia] = p.F*u[Ip]/p.TauP - u[Ia]/p.TauI
		du[Is] = (1-p.F)*u[Ip]/p.TauP - (1-p.D)*u[Is]/p.TauI - p.D*u[Is]/p.TauD
		du[R] = u[Ia]/p.TauI + (1-p.D)*u[Is]/p.TauI + p.D*u[Is]/p.TauD
		return du
	}
}

// Total returns the population total of a state vector.
func Total(u []float64) float64 {
	sum := 0.0
	for _, v := range u {
		sum += v
	}
	return sum
}

// DiseaseFree reports whether a state has no individuals in any
// infected compartment.
func DiseaseFree(u []float64) bool {
	return u[E] == 0 && u[Ip] == 0 && u[Ia] == 0 && u[Is] == 0
}
