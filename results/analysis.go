package results

import (
	"math"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
)

// Analyze computes peaks, attack rate, conservation and per-compartment
// statistics for a trajectory.
func Analyze(tr *epidemic.Trajectory) *Analysis {
	a := &Analysis{
		AttackRate: tr.AttackRate(),
		Statistics: make(map[string]Stat, len(tr.Compartments)),
	}

	for _, name := range tr.Compartments {
		series := tr.Series(name)
		a.Statistics[name] = computeStats(series)

		// The susceptible and removed pools are monotone; only the
		// transient compartments have a meaningful peak.
		if name == model.Compartments[model.S] || name == model.Compartments[model.R] {
			continue
		}
		t, v := tr.Peak(name)
		a.Peaks = append(a.Peaks, Peak{Compartment: name, Time: t, Value: v})
	}

	a.Conservation = checkConservation(tr)
	return a
}

// checkConservation tracks the population total across the whole run,
// not just the endpoints.
func checkConservation(tr *epidemic.Trajectory) *Conservation {
	if len(tr.U) == 0 {
		return &Conservation{Conserved: true}
	}

	total := func(u []float64) float64 {
		s := 0.0
		for _, v := range u {
			s += v
		}
		return s
	}

	initial := total(tr.U[0])
	final := total(tr.U[len(tr.U)-1])
	maxDrift := 0.0
	for _, u := range tr.U {
		if d := math.Abs(total(u) - initial); d > maxDrift {
			maxDrift = d
		}
	}

	return &Conservation{
		Initial:   initial,
		Final:     final,
		MaxDrift:  maxDrift,
		Conserved: maxDrift <= model.StateTolerance*tr.Params.N,
	}
}

func computeStats(data []float64) Stat {
	if len(data) == 0 {
		return Stat{}
	}

	min, max, sum := data[0], data[0], 0.0
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(data))

	sumSq := 0.0
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}

	return Stat{
		Min:  min,
		Max:  max,
		Mean: mean,
		Std:  math.Sqrt(sumSq / float64(len(data))),
	}
}
