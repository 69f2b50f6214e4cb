package sweep

import (
	"math"
	"testing"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/solver"
)

// smallScenario keeps integration cheap: a village-scale outbreak over a
// short horizon.
func smallScenario() *epidemic.Scenario {
	s := epidemic.Baseline()
	s.Name = "small"
	s.Parameters.N = 10000
	s.Initial = []float64{9990, 10, 0, 0, 0, 0}
	s.Tf = 20
	s.Points = 21
	return s
}

func TestParamNames(t *testing.T) {
	names := ParamNames()
	if len(names) != 9 {
		t.Fatalf("got %d parameter names, want 9", len(names))
	}
	seen := make(map[string]bool)
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"beta_p", "beta_a", "beta_s", "tau_e", "tau_p", "tau_i", "tau_d", "f", "d"} {
		if !seen[want] {
			t.Errorf("missing parameter %q", want)
		}
	}
}

func TestWithParamUnknown(t *testing.T) {
	if _, err := SetParam(smallScenario().Parameters, "bogus", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestAnalyzeRanksTransmission(t *testing.T) {
	a := NewAnalyzer(smallScenario(), AttackRateScorer()).WithOptions(solver.DefaultOptions())

	result, err := a.Analyze()
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Baseline <= 0 || result.Baseline > 1 {
		t.Errorf("baseline attack rate %g outside (0, 1]", result.Baseline)
	}
	if len(result.Ranking) != len(ParamNames()) {
		t.Fatalf("ranking has %d entries, want %d", len(result.Ranking), len(ParamNames()))
	}
	// Raising a transmission rate cannot lower the attack rate.
	for _, b := range []string{"beta_p", "beta_a", "beta_s"} {
		if result.Impact[b] < -1e-6 {
			t.Errorf("raising %s lowered attack rate by %g", b, -result.Impact[b])
		}
	}
}

func TestAnalyzeParallelMatchesSequential(t *testing.T) {
	s := smallScenario()
	seq, err := NewAnalyzer(s, PeakScorer("Is")).WithOptions(solver.DefaultOptions()).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	par, err := NewAnalyzer(s, PeakScorer("Is")).WithOptions(solver.DefaultOptions()).AnalyzeParallel()
	if err != nil {
		t.Fatal(err)
	}
	for name, score := range seq.Scores {
		if got := par.Scores[name]; got != score {
			t.Errorf("%s: parallel score %g differs from sequential %g", name, got, score)
		}
	}
}

func TestSweepParamMonotone(t *testing.T) {
	a := NewAnalyzer(smallScenario(), AttackRateScorer()).WithOptions(solver.DefaultOptions())

	result, err := a.SweepParamRange("beta_p", 0.2, 1.2, 6)
	if err != nil {
		t.Fatalf("SweepParamRange: %v", err)
	}
	if len(result.Scores) != 6 {
		t.Fatalf("got %d scores, want 6", len(result.Scores))
	}
	if result.Best.Value != 1.2 {
		t.Errorf("best attack rate at beta_p=%g, want at the top of the range", result.Best.Value)
	}
	for i := 1; i < len(result.Scores); i++ {
		if result.Scores[i] < result.Scores[i-1]-1e-6 {
			t.Errorf("attack rate fell from %g to %g as beta_p rose", result.Scores[i-1], result.Scores[i])
		}
	}
}

func TestSweepR0(t *testing.T) {
	p := smallScenario().Parameters
	result, err := SweepR0Range(p, "beta_p", 0.0, 1.6, 9)
	if err != nil {
		t.Fatalf("SweepR0Range: %v", err)
	}
	// R0 is affine in beta_p with positive slope tau_p.
	for i := 1; i < len(result.Scores); i++ {
		if result.Scores[i] <= result.Scores[i-1] {
			t.Errorf("R0 not increasing in beta_p: %v", result.Scores)
			break
		}
	}
	step := result.Values[1] - result.Values[0]
	slope := (result.Scores[1] - result.Scores[0]) / step
	if math.Abs(slope-p.TauP) > 1e-9 {
		t.Errorf("dR0/dbeta_p = %g, want tau_p = %g", slope, p.TauP)
	}
}

func TestSweepRangeRejectsDegenerateSteps(t *testing.T) {
	// A single-point range cannot be spread over [min, max]; both range
	// sweeps must refuse it instead of producing NaN values.
	a := NewAnalyzer(smallScenario(), AttackRateScorer()).WithOptions(solver.DefaultOptions())

	for _, steps := range []int{1, 0, -3} {
		if _, err := a.SweepParamRange("beta_p", 0.2, 1.2, steps); err == nil {
			t.Errorf("SweepParamRange with %d steps: expected error", steps)
		}
		if _, err := SweepR0Range(smallScenario().Parameters, "beta_p", 0.0, 1.6, steps); err == nil {
			t.Errorf("SweepR0Range with %d steps: expected error", steps)
		}
	}
}

func TestGradientSign(t *testing.T) {
	a := NewAnalyzer(smallScenario(), AttackRateScorer()).WithOptions(solver.DefaultOptions())

	grad, err := a.Gradient("beta_a", 0.05)
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	if grad < 0 {
		t.Errorf("dAttackRate/dbeta_a = %g, want non-negative", grad)
	}
}
