package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/results"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func compareCmd(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak compare <baseline.json> <variant.json>

Compare two results documents and show what changed.

Examples:
  outbreak compare baseline.json masks.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("two results files required")
	}

	baseline, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	variant, err := results.ReadJSON(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read variant: %w", err)
	}

	fmt.Println("=== Comparison ===")
	fmt.Printf("Baseline: %s\n", scenarioName(baseline))
	fmt.Printf("Variant:  %s\n\n", scenarioName(variant))

	fmt.Printf("R0: %.4f -> %.4f (%+.4f)\n\n", baseline.R0, variant.R0, variant.R0-baseline.R0)

	if baseline.Analysis != nil && variant.Analysis != nil {
		fmt.Println("Peaks:")
		comparePeaks(baseline.Analysis.Peaks, variant.Analysis.Peaks)
		fmt.Println()

		ab, av := baseline.Analysis.AttackRate, variant.Analysis.AttackRate
		fmt.Printf("Attack rate: %.1f%% -> %.1f%% (%+.1f points)\n\n", ab*100, av*100, (av-ab)*100)
	}

	fmt.Println("Final state:")
	compareFinalStates(baseline.Data.Summary.FinalState, variant.Data.Summary.FinalState)

	fmt.Println("\nParameter differences:")
	compareParams(baseline, variant)
	return nil
}

func scenarioName(r *results.Results) string {
	if r.Scenario != nil && r.Scenario.Name != "" {
		return r.Scenario.Name
	}
	return r.Metadata.RunID
}

func comparePeaks(basePeaks, varPeaks []results.Peak) {
	baseMap := make(map[string]results.Peak)
	for _, p := range basePeaks {
		baseMap[p.Compartment] = p
	}

	for _, vp := range varPeaks {
		bp, ok := baseMap[vp.Compartment]
		if !ok {
			continue
		}
		valueDiff := vp.Value - bp.Value
		valuePct := 0.0
		if bp.Value != 0 {
			valuePct = (valueDiff / bp.Value) * 100
		}
		timeDiff := vp.Time - bp.Time

		fmt.Printf("  %s:\n", vp.Compartment)
		fmt.Printf("    Baseline: %.2f at day %.1f\n", bp.Value, bp.Time)
		fmt.Printf("    Variant:  %.2f at day %.1f\n", vp.Value, vp.Time)
		fmt.Printf("    Change:   %+.2f (%+.1f%%), ", valueDiff, valuePct)
		switch {
		case timeDiff > 0:
			fmt.Printf("%.1f days later\n", timeDiff)
		case timeDiff < 0:
			fmt.Printf("%.1f days earlier\n", -timeDiff)
		default:
			fmt.Println("same day")
		}
	}
}

func compareFinalStates(base, variant map[string]float64) {
	for _, name := range model.Compartments {
		baseVal, ok1 := base[name]
		varVal, ok2 := variant[name]
		if !ok1 || !ok2 {
			continue
		}
		diff := varVal - baseVal
		if math.Abs(diff) < 0.01 {
			continue
		}
		pct := 0.0
		if baseVal != 0 {
			pct = (diff / baseVal) * 100
		}
		fmt.Printf("  %-3s %12.1f -> %12.1f  (%+.1f", name, baseVal, varVal, diff)
		if math.Abs(pct) > 0.1 {
			fmt.Printf(", %+.1f%%", pct)
		}
		fmt.Println(")")
	}
}

func compareParams(base, variant *results.Results) {
	if base.Scenario == nil || variant.Scenario == nil {
		fmt.Println("  (scenario data missing)")
		return
	}

	differ := false
	for _, name := range sweep.ParamNames() {
		bv, _ := sweep.GetParam(base.Scenario.Parameters, name)
		vv, _ := sweep.GetParam(variant.Scenario.Parameters, name)
		if math.Abs(vv-bv) > 1e-9 {
			fmt.Printf("  %s: %.6g -> %.6g\n", name, bv, vv)
			differ = true
		}
	}
	if !differ {
		fmt.Println("  No parameter differences")
	}
}
