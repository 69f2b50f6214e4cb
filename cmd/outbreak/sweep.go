package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/results"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func sweepCmd(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	objective := fs.String("objective", "attack", "Objective: attack, peak:<compartment>, final:<compartment>, r0")
	param := fs.String("param", "", "Sweep one parameter over a range instead of ranking all")
	min := fs.Float64("min", 0, "Range minimum (with --param)")
	max := fs.Float64("max", 0, "Range maximum (with --param)")
	steps := fs.Int("steps", 11, "Number of values across the range (with --param)")
	bump := fs.Float64("bump", 0.1, "Relative perturbation for the ranking")
	parallel := fs.Bool("parallel", true, "Run perturbed scenarios concurrently")
	output := fs.String("output", "", "Write the report as JSON instead of text")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak sweep <scenario.json> [options]

Without --param, perturb every model parameter and rank them by their
effect on the objective. With --param, evaluate the objective across a
range of values for one parameter.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Which parameter moves the attack rate most?
  outbreak sweep scenario.json --objective attack

  # Peak symptomatic load across a range of beta_s
  outbreak sweep scenario.json --param beta_s --min 0.2 --max 1.2 --objective peak:Is

  # R0 across isolation fractions, no integration needed
  outbreak sweep scenario.json --param f --min 0 --max 1 --objective r0
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("scenario file required")
	}

	s, err := epidemic.LoadScenario(fs.Arg(0))
	if err != nil {
		return err
	}

	if *param != "" {
		return sweepRange(s, *param, *min, *max, *steps, *objective)
	}

	scorer, err := scorerFor(*objective)
	if err != nil {
		return err
	}

	analyzer := sweep.NewAnalyzer(s, scorer).WithBump(*bump)
	var res *sweep.Result
	if *parallel {
		res, err = analyzer.AnalyzeParallel()
	} else {
		res, err = analyzer.Analyze()
	}
	if err != nil {
		return err
	}

	if *output != "" {
		report := results.NewSweepReport(s.Name, *objective, res)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote sweep report to %s\n", *output)
		return nil
	}

	fmt.Printf("Objective: %s\n", *objective)
	fmt.Printf("Baseline:  %.6g\n\n", res.Baseline)
	fmt.Printf("%-10s %14s %14s\n", "parameter", "score", "impact")
	for _, rp := range res.Ranking {
		fmt.Printf("%-10s %14.6g %+14.6g\n", rp.Name, res.Scores[rp.Name], rp.Impact)
	}
	return nil
}

func sweepRange(s *epidemic.Scenario, param string, min, max float64, steps int, objective string) error {
	if max <= min {
		return fmt.Errorf("--max must exceed --min")
	}

	var res *sweep.SweepResult
	var err error
	if objective == "r0" {
		res, err = sweep.SweepR0Range(s.Parameters, param, min, max, steps)
	} else {
		scorer, serr := scorerFor(objective)
		if serr != nil {
			return serr
		}
		res, err = sweep.NewAnalyzer(s, scorer).SweepParamRange(param, min, max, steps)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Objective: %s\n", objective)
	fmt.Printf("%-12s %14s\n", res.Parameter, "score")
	for i, v := range res.Values {
		fmt.Printf("%-12.6g %14.6g\n", v, res.Scores[i])
	}
	fmt.Printf("\nBest:  %s=%.6g (score %.6g)\n", res.Parameter, res.Best.Value, res.Best.Score)
	fmt.Printf("Worst: %s=%.6g (score %.6g)\n", res.Parameter, res.Worst.Value, res.Worst.Score)
	return nil
}

// scorerFor parses an objective string into a scorer. "peak:Is" scores
// the peak of compartment Is, "final:R" the last value of R.
func scorerFor(objective string) (sweep.Scorer, error) {
	switch {
	case objective == "attack":
		return sweep.AttackRateScorer(), nil
	case len(objective) > 5 && objective[:5] == "peak:":
		label := objective[5:]
		if !validCompartment(label) {
			return nil, fmt.Errorf("unknown compartment %q", label)
		}
		return sweep.PeakScorer(label), nil
	case len(objective) > 6 && objective[:6] == "final:":
		label := objective[6:]
		if !validCompartment(label) {
			return nil, fmt.Errorf("unknown compartment %q", label)
		}
		return sweep.FinalScorer(label), nil
	default:
		return nil, fmt.Errorf("unknown objective %q (want attack, peak:<compartment>, final:<compartment> or r0)", objective)
	}
}

func validCompartment(label string) bool {
	for _, c := range model.Compartments {
		if c == label {
			return true
		}
	}
	return false
}
