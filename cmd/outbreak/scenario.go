package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func scenarioCmd(args []string) error {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	output := fs.String("output", "", "Output file for the scenario (required)")
	name := fs.String("name", "baseline", "Scenario name")
	setFlags := fs.String("set", "", "Override parameters (format: beta_p=0.5,tau_i=4)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak scenario [options]

Write a scenario file seeded from the built-in baseline: a single
exposed case in a susceptible population of 4.9 million, tracked daily
for ten weeks. Edit the file to define your own scenario.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  outbreak scenario --output scenario.json
  outbreak scenario --output masks.json --name masks --set "beta_p=0.4,beta_a=0.4,beta_s=0.4"
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	s := epidemic.Baseline()
	s.Name = *name

	if *setFlags != "" {
		overrides, err := parseKeyValue(*setFlags)
		if err != nil {
			return fmt.Errorf("parse overrides: %w", err)
		}
		for paramName, value := range overrides {
			s.Parameters, err = sweep.SetParam(s.Parameters, paramName, value)
			if err != nil {
				return err
			}
		}
	}

	if err := s.Validate(); err != nil {
		return err
	}
	if err := epidemic.SaveScenario(s, *output); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote scenario %q to %s\n", s.Name, *output)
	return nil
}
