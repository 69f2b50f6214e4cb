package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/results"
	"github.com/outbreak-xyz/go-outbreak/solver"
	"github.com/outbreak-xyz/go-outbreak/store"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func simulateCmd(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	output := fs.String("output", "", "Output file for results JSON")
	csvOut := fs.String("csv", "", "Also write the trajectory as CSV")
	method := fs.String("method", "tsit5", "Integration method (tsit5, rk45, bs32, rk4, euler)")
	optsName := fs.String("opts", "epidemic", "Tolerance preset (default, accurate, fast, epidemic, stiff)")
	analyze := fs.Bool("analyze", true, "Compute automatic analysis")
	downsample := fs.Int("downsample", 150, "Target number of points for downsampled output")
	setFlags := fs.String("set", "", "Override parameters (format: beta_p=0.5,tau_i=4)")
	dbPath := fs.String("db", "", "Archive the run in this SQLite database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak simulate <scenario.json> [options]

Integrate a scenario and write a results document.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Basic simulation
  outbreak simulate scenario.json --output results.json

  # Reduced transmission variant
  outbreak simulate scenario.json --set "beta_p=0.4,beta_a=0.4,beta_s=0.4" --output masks.json

  # Archive to a run database
  outbreak simulate scenario.json --output results.json --db runs.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("scenario file required")
	}
	if *output == "" && *csvOut == "" && *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("at least one of --output, --csv or --db required")
	}

	s, err := epidemic.LoadScenario(fs.Arg(0))
	if err != nil {
		return err
	}

	if *setFlags != "" {
		overrides, err := parseKeyValue(*setFlags)
		if err != nil {
			return fmt.Errorf("parse overrides: %w", err)
		}
		for name, value := range overrides {
			s.Parameters, err = sweep.SetParam(s.Parameters, name, value)
			if err != nil {
				return err
			}
		}
	}

	m := solver.ByName(*method)
	if m == nil {
		return fmt.Errorf("unknown method %q", *method)
	}
	opts := solver.OptionsByName(*optsName)
	if opts == nil {
		return fmt.Errorf("unknown preset %q", *optsName)
	}

	start := time.Now()
	tr, runErr := epidemic.Run(s.Parameters, s.Initial, s.Grid(), m, opts)
	elapsed := time.Since(start)

	builder := results.NewBuilder().WithScenario(s)
	if runErr != nil {
		res := builder.WithError(runErr).Build()
		if *output != "" {
			if err := results.WriteJSON(res, *output); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
		}
		return runErr
	}
	builder.WithTrajectory(tr, *method, elapsed, *downsample)
	if *analyze {
		builder.WithAnalysis(results.Analyze(tr))
	}
	res := builder.Build()

	if *output != "" {
		if err := results.WriteJSON(res, *output); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	if *csvOut != "" {
		if err := results.WriteCSV(tr, *csvOut); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if *dbPath != "" {
		db, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Save(context.Background(), res); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Simulation complete\n")
	fmt.Fprintf(os.Stderr, "  Run:     %s\n", res.Metadata.RunID)
	fmt.Fprintf(os.Stderr, "  R0:      %.4f\n", res.R0)
	fmt.Fprintf(os.Stderr, "  Days:    %.1f to %.1f\n", s.T0, s.Tf)
	fmt.Fprintf(os.Stderr, "  Steps:   %d\n", tr.Steps)
	fmt.Fprintf(os.Stderr, "  Compute: %.3fs\n", elapsed.Seconds())
	if res.Analysis != nil {
		fmt.Fprintf(os.Stderr, "  Attack rate: %.1f%%\n", res.Analysis.AttackRate*100)
	}
	if *output != "" {
		fmt.Fprintf(os.Stderr, "  Output:  %s\n", *output)
	}
	return nil
}

// parseKeyValue parses "key1=val1,key2=val2" format.
func parseKeyValue(s string) (map[string]float64, error) {
	result := make(map[string]float64)
	if s == "" {
		return result, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format: %s (expected key=value)", pair)
		}
		key := strings.TrimSpace(parts[0])
		var value float64
		if _, err := fmt.Sscanf(parts[1], "%f", &value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %s", key, parts[1])
		}
		result[key] = value
	}
	return result, nil
}
