package solver

// Options contains solver configuration parameters.
type Options struct {
	Dt       float64 // initial time step
	Dtmin    float64 // minimum time step
	Dtmax    float64 // maximum time step
	Abstol   float64 // absolute error tolerance
	Reltol   float64 // relative error tolerance
	Maxiters int     // maximum number of internal steps
	Adaptive bool    // use adaptive step size control
}

// DefaultOptions returns balanced settings suitable for most problems.
func DefaultOptions() *Options {
	return &Options{
		Dt:       0.01,
		Dtmin:    1e-6,
		Dtmax:    0.5,
		Abstol:   1e-6,
		Reltol:   1e-4,
		Maxiters: 200000,
		Adaptive: true,
	}
}

// AccurateOptions returns options for high-precision runs, for example
// when publishing results or validating against reference trajectories.
func AccurateOptions() *Options {
	return &Options{
		Dt:       0.001,
		Dtmin:    1e-8,
		Dtmax:    0.1,
		Abstol:   1e-9,
		Reltol:   1e-6,
		Maxiters: 1000000,
		Adaptive: true,
	}
}

// FastOptions returns options optimized for speed over accuracy, useful
// for coarse parameter sweeps. Trades precision for a large speedup.
func FastOptions() *Options {
	return &Options{
		Dt:       0.1,
		Dtmin:    1e-4,
		Dtmax:    1.0,
		Abstol:   1e-2,
		Reltol:   1e-2,
		Maxiters: 10000,
		Adaptive: true,
	}
}

// EpidemicOptions returns options tuned for compartment models over
// spans of weeks to months: day-scale steps bounded so fast early
// growth is still resolved.
func EpidemicOptions() *Options {
	return &Options{
		Dt:       0.1,
		Dtmin:    1e-6,
		Dtmax:    1.0,
		Abstol:   1e-6,
		Reltol:   1e-5,
		Maxiters: 100000,
		Adaptive: true,
	}
}

// StiffOptions returns options for systems with widely separated time
// constants, keeping the step small enough for explicit methods to
// remain stable.
func StiffOptions() *Options {
	return &Options{
		Dt:       0.001,
		Dtmin:    1e-10,
		Dtmax:    0.01,
		Abstol:   1e-8,
		Reltol:   1e-5,
		Maxiters: 500000,
		Adaptive: true,
	}
}

// OptionsByName returns the preset with the given name, or nil if the
// name is unknown.
func OptionsByName(name string) *Options {
	switch name {
	case "default":
		return DefaultOptions()
	case "accurate":
		return AccurateOptions()
	case "fast":
		return FastOptions()
	case "epidemic":
		return EpidemicOptions()
	case "stiff":
		return StiffOptions()
	}
	return nil
}
