package solver

import (
	"errors"
	"math"
	"testing"
)

// decayProblem is dA/dt = -k·A with closed form A(t) = A0·exp(-k·t).
func decayProblem(t *testing.T, a0, k float64, saveAt []float64) *Problem {
	t.Helper()
	f := func(_ float64, u []float64) []float64 {
		return []float64{-k * u[0]}
	}
	prob, err := NewProblem(f, []float64{a0}, []string{"A"}, saveAt)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return prob
}

func grid(t0, tf float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + (tf-t0)*float64(i)/float64(n-1)
	}
	return out
}

func TestNewProblemValidation(t *testing.T) {
	f := func(_ float64, u []float64) []float64 { return u }

	if _, err := NewProblem(nil, []float64{1}, []string{"A"}, []float64{0, 1}); err == nil {
		t.Error("expected error for nil derivative")
	}
	if _, err := NewProblem(f, []float64{1, 2}, []string{"A"}, []float64{0, 1}); err == nil {
		t.Error("expected error for label/state mismatch")
	}
	if _, err := NewProblem(f, []float64{1}, []string{"A"}, nil); !errors.Is(err, ErrBadGrid) {
		t.Errorf("expected ErrBadGrid for empty grid, got %v", err)
	}
	if _, err := NewProblem(f, []float64{1}, []string{"A"}, []float64{0, 2, 1}); !errors.Is(err, ErrBadGrid) {
		t.Errorf("expected ErrBadGrid for non-ascending grid, got %v", err)
	}
}

func TestSolveExponentialDecay(t *testing.T) {
	saveAt := grid(0, 10, 11)
	prob := decayProblem(t, 100.0, 0.1, saveAt)

	sol, err := Solve(prob, Tsit5(), DefaultOptions())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for i, tp := range sol.T {
		want := 100.0 * math.Exp(-0.1*tp)
		got := sol.U[i][0]
		if rel := math.Abs(got-want) / want; rel > 1e-4 {
			t.Errorf("A(%g) = %g, want %g (rel err %g)", tp, got, want, rel)
		}
	}
}

func TestSolveOutputsExactlyRequestedTimes(t *testing.T) {
	saveAt := []float64{0, 0.37, 1.1, 2.25, 7.5, 10}
	prob := decayProblem(t, 50.0, 0.3, saveAt)

	sol, err := Solve(prob, Tsit5(), DefaultOptions())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.T) != len(saveAt) {
		t.Fatalf("got %d output points, want %d", len(sol.T), len(saveAt))
	}
	for i := range saveAt {
		if sol.T[i] != saveAt[i] {
			t.Errorf("T[%d] = %v, want %v", i, sol.T[i], saveAt[i])
		}
	}
	if len(sol.U) != len(saveAt) {
		t.Errorf("got %d states, want %d", len(sol.U), len(saveAt))
	}
}

func TestSolveConservesLinearInvariant(t *testing.T) {
	// A -> B at rate k·A: the sum A+B is a linear invariant, which
	// Runge-Kutta methods preserve to roundoff.
	k := 0.2
	f := func(_ float64, u []float64) []float64 {
		flux := k * u[0]
		return []float64{-flux, flux}
	}
	prob, err := NewProblem(f, []float64{100, 0}, []string{"A", "B"}, grid(0, 50, 26))
	if err != nil {
		t.Fatal(err)
	}
	sol, err := Solve(prob, Tsit5(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i, u := range sol.U {
		if total := u[0] + u[1]; math.Abs(total-100) > 1e-8 {
			t.Errorf("A+B = %v at output %d, want 100", total, i)
		}
	}
	if final := sol.Final(); final[0] > 1e-2 {
		t.Errorf("A(50) = %v, want nearly depleted", final[0])
	}
}

func TestSolveMaxItersBound(t *testing.T) {
	prob := decayProblem(t, 100.0, 0.1, grid(0, 1000, 2))
	opts := DefaultOptions()
	opts.Maxiters = 5

	_, err := Solve(prob, Tsit5(), opts)
	if !errors.Is(err, ErrMaxIters) {
		t.Errorf("expected ErrMaxIters, got %v", err)
	}
}

func TestSolveDetectsDivergence(t *testing.T) {
	// du/dt = u² from u=1 blows up at t=1.
	f := func(_ float64, u []float64) []float64 {
		return []float64{u[0] * u[0]}
	}
	prob, err := NewProblem(f, []float64{1}, []string{"u"}, []float64{0, 2})
	if err != nil {
		t.Fatal(err)
	}
	opts := &Options{Dt: 0.05, Dtmin: 0.05, Dtmax: 0.05, Abstol: 1e-6, Reltol: 1e-3, Maxiters: 100000, Adaptive: false}
	_, err = Solve(prob, Tsit5(), opts)
	if !errors.Is(err, ErrDivergence) {
		t.Errorf("expected ErrDivergence, got %v", err)
	}
}

func TestSolveStepSizeSurvivesGridLanding(t *testing.T) {
	// An output point just after t=0 forces a tiny capped step. The
	// working step must not shrink from it: integrating the remaining
	// interval should still take about Dtmax-sized steps, not rebuild
	// the step size from the capped one.
	saveAt := []float64{0, 1e-6, 10}
	prob := decayProblem(t, 100.0, 0.1, saveAt)
	opts := &Options{Dt: 0.5, Dtmin: 1e-9, Dtmax: 0.5, Abstol: 1e-2, Reltol: 1e-2, Maxiters: 10000, Adaptive: true}

	sol, err := Solve(prob, Tsit5(), opts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// 10/0.5 = 20 steps for the long interval, plus the landing step
	// and a little slack.
	if sol.Steps > 24 {
		t.Errorf("took %d steps, want at most 24", sol.Steps)
	}
	want := 100.0 * math.Exp(-1.0)
	if got := sol.Final()[0]; math.Abs(got-want)/want > 1e-2 {
		t.Errorf("A(10) = %v, want ≈%v", got, want)
	}
}

func TestSolveFixedStepRK4(t *testing.T) {
	prob := decayProblem(t, 10.0, 0.5, grid(0, 4, 5))
	opts := &Options{Dt: 0.01, Dtmin: 0.01, Dtmax: 0.01, Abstol: 1e-6, Reltol: 1e-3, Maxiters: 100000, Adaptive: false}

	sol, err := Solve(prob, RK4(), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := 10.0 * math.Exp(-0.5*4)
	if got := sol.Final()[0]; math.Abs(got-want)/want > 1e-6 {
		t.Errorf("A(4) = %v, want %v", got, want)
	}
}

func TestImplicitEulerDecay(t *testing.T) {
	prob := decayProblem(t, 100.0, 0.1, grid(0, 10, 11))
	opts := StiffOptions()
	opts.Dt = 0.01

	sol, err := ImplicitEuler(prob, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := 100.0 * math.Exp(-1.0)
	// Backward Euler is first order; allow a coarser tolerance.
	if got := sol.Final()[0]; math.Abs(got-want)/want > 1e-2 {
		t.Errorf("A(10) = %v, want ≈%v", got, want)
	}
}

func TestSolutionSeries(t *testing.T) {
	sol := &Solution{
		T:      []float64{0, 1, 2},
		U:      [][]float64{{10, 0}, {5, 5}, {0, 10}},
		Labels: []string{"A", "B"},
	}

	a := sol.Series("A")
	if len(a) != 3 || a[0] != 10 || a[1] != 5 || a[2] != 0 {
		t.Errorf("Series(A) = %v, want [10 5 0]", a)
	}
	if sol.Series("missing") != nil {
		t.Error("expected nil series for unknown label")
	}
	if sol.At(-1) != nil || sol.At(3) != nil {
		t.Error("expected nil state for out-of-range index")
	}
	if final := sol.Final(); final[1] != 10 {
		t.Errorf("Final()[1] = %v, want 10", final[1])
	}
}

func TestMethodTableaus(t *testing.T) {
	for _, m := range []*Method{Tsit5(), RK45(), BS32(), RK4(), Euler()} {
		if len(m.C) != len(m.B) || len(m.B) != len(m.Bhat) {
			t.Errorf("%s: inconsistent tableau sizes", m.Name)
		}
		// Solution weights of a consistent method sum to 1.
		sum := 0.0
		for _, b := range m.B {
			sum += b
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("%s: B weights sum to %v, want 1", m.Name, sum)
		}
	}
}

func TestByName(t *testing.T) {
	if m := ByName("tsit5"); m == nil || m.Name != "Tsit5" {
		t.Error("ByName(tsit5) failed")
	}
	if ByName("unknown") != nil {
		t.Error("ByName(unknown) should be nil")
	}
}

func TestOptionsByName(t *testing.T) {
	for _, name := range []string{"default", "accurate", "fast", "epidemic", "stiff"} {
		opts := OptionsByName(name)
		if opts == nil {
			t.Fatalf("OptionsByName(%s) = nil", name)
		}
		if opts.Dt <= 0 || opts.Dtmin <= 0 || opts.Dtmax < opts.Dtmin || opts.Maxiters <= 0 {
			t.Errorf("OptionsByName(%s) has invalid settings: %+v", name, opts)
		}
	}
	if OptionsByName("unknown") != nil {
		t.Error("OptionsByName(unknown) should be nil")
	}
}

func TestOptionsPresetAccuracyOrdering(t *testing.T) {
	prob := decayProblem(t, 100.0, 0.1, grid(0, 10, 11))
	want := 100.0 * math.Exp(-1.0)

	relErr := func(opts *Options) float64 {
		sol, err := Solve(prob, Tsit5(), opts)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		return math.Abs(sol.Final()[0]-want) / want
	}

	accurate := relErr(AccurateOptions())
	fast := relErr(FastOptions())
	if accurate > fast {
		t.Errorf("accurate preset error %g exceeds fast preset error %g", accurate, fast)
	}
	if accurate > 1e-6 {
		t.Errorf("accurate preset error %g, want at most 1e-6", accurate)
	}
}
