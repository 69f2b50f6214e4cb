package results

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func runTestScenario(t *testing.T) (*epidemic.Scenario, *epidemic.Trajectory) {
	t.Helper()
	n := 10000.0
	s := &epidemic.Scenario{
		Name: "test",
		Parameters: model.Parameters{
			Bp: 0.8, Ba: 0.8, Bs: 0.8,
			TauE: 3.5, TauP: 1.5, TauI: 3.5, TauD: 14,
			F: 0.3, D: 0.05, N: n,
		},
		Initial: []float64{n - 10, 10, 0, 0, 0, 0},
		T0:      0,
		Tf:      30,
		Points:  31,
	}
	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return s, tr
}

func TestBuilder(t *testing.T) {
	s, tr := runTestScenario(t)

	r := NewBuilder().
		WithScenario(s).
		WithTrajectory(tr, "tsit5", 50*time.Millisecond, 0).
		WithAnalysis(Analyze(tr)).
		Build()

	if r.Version != SchemaVersion {
		t.Errorf("version = %q, want %q", r.Version, SchemaVersion)
	}
	if r.Metadata.RunID == "" {
		t.Error("expected a run ID")
	}
	if r.Metadata.Status != "success" {
		t.Errorf("status = %q, want success", r.Metadata.Status)
	}
	if r.Metadata.Solver != "tsit5" {
		t.Errorf("solver = %q, want tsit5", r.Metadata.Solver)
	}
	if math.Abs(r.R0-4.076) > 0.01 {
		t.Errorf("r0 = %g, want about 4.076", r.R0)
	}
	if r.Data.Summary.Points != 31 {
		t.Errorf("points = %d, want 31", r.Data.Summary.Points)
	}
	if len(r.Data.Timeseries.Compartments) != model.NumCompartments {
		t.Errorf("got %d compartments, want %d",
			len(r.Data.Timeseries.Compartments), model.NumCompartments)
	}
	if got := r.Data.Summary.FinalState["S"]; got >= s.Parameters.N {
		t.Errorf("final S = %g, expected fewer than N susceptibles", got)
	}
}

func TestBuilderError(t *testing.T) {
	r := NewBuilder().WithError(model.ErrInvalidParameter).Build()
	if r.Metadata.Status != "error" {
		t.Errorf("status = %q, want error", r.Metadata.Status)
	}
	if r.Metadata.Error == "" {
		t.Error("expected error message")
	}
}

func TestAnalyze(t *testing.T) {
	_, tr := runTestScenario(t)
	a := Analyze(tr)

	if a.AttackRate <= 0 || a.AttackRate > 1 {
		t.Errorf("attack rate = %g, want in (0, 1]", a.AttackRate)
	}
	if a.Conservation == nil || !a.Conservation.Conserved {
		t.Error("expected population conserved")
	}
	if len(a.Peaks) != 4 {
		t.Errorf("got %d peaks, want 4 transient compartments", len(a.Peaks))
	}
	for _, p := range a.Peaks {
		if p.Compartment == "S" || p.Compartment == "R" {
			t.Errorf("monotone compartment %s should not report a peak", p.Compartment)
		}
		if p.Value <= 0 {
			t.Errorf("peak %s = %g, want positive", p.Compartment, p.Value)
		}
	}
	stat, ok := a.Statistics["E"]
	if !ok {
		t.Fatal("missing statistics for E")
	}
	if stat.Max < stat.Mean || stat.Mean < stat.Min {
		t.Errorf("inconsistent stats: min=%g mean=%g max=%g", stat.Min, stat.Mean, stat.Max)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s, tr := runTestScenario(t)
	r := NewBuilder().
		WithScenario(s).
		WithTrajectory(tr, "tsit5", time.Millisecond, 10).
		Build()

	path := filepath.Join(t.TempDir(), "run.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Metadata.RunID != r.Metadata.RunID {
		t.Errorf("run ID changed: %q vs %q", got.Metadata.RunID, r.Metadata.RunID)
	}
	if got.R0 != r.R0 {
		t.Errorf("r0 changed: %g vs %g", got.R0, r.R0)
	}
	if len(got.Data.Timeseries.Time.Downsampled) != 10 {
		t.Errorf("downsampled to %d points, want 10",
			len(got.Data.Timeseries.Time.Downsampled))
	}
}

func TestDownsample(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	down := downsample(data, 10)
	if len(down) != 10 {
		t.Fatalf("got %d points, want 10", len(down))
	}
	if down[0] != data[0] || down[9] != data[99] {
		t.Error("endpoints must be preserved")
	}

	short := downsample(data[:5], 10)
	if len(short) != 5 {
		t.Errorf("short input should pass through, got %d points", len(short))
	}
}

func TestWriteCSV(t *testing.T) {
	_, tr := runTestScenario(t)

	var buf bytes.Buffer
	if err := WriteCSVTo(tr, &buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(tr.T)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(tr.T)+1)
	}
	if lines[0] != "t,S,E,Ip,Ia,Is,R" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestSweepReport(t *testing.T) {
	s, _ := runTestScenario(t)
	an := sweep.NewAnalyzer(s, sweep.AttackRateScorer())
	res, err := an.Analyze()
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	report := NewSweepReport(s.Name, "attack_rate", res)
	if report.Baseline != res.Baseline {
		t.Errorf("baseline = %g, want %g", report.Baseline, res.Baseline)
	}
	if len(report.Rankings) != len(res.Ranking) {
		t.Fatalf("got %d rankings, want %d", len(report.Rankings), len(res.Ranking))
	}
	for i, r := range report.Rankings {
		if r.Rank != i+1 {
			t.Errorf("ranking %d has rank %d", i, r.Rank)
		}
	}
}
