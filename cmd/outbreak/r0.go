package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/nextgen"
	"github.com/outbreak-xyz/go-outbreak/sweep"
)

func r0Cmd(args []string) error {
	fs := flag.NewFlagSet("r0", flag.ExitOnError)
	setFlags := fs.String("set", "", "Override parameters (format: beta_p=0.5,tau_i=4)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak r0 [scenario.json] [options]

Compute the basic reproduction number from the next-generation matrix.
With no scenario file the built-in baseline parameters are used.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  outbreak r0 scenario.json
  outbreak r0 --set "beta_p=0.4,beta_a=0.4,beta_s=0.4"
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	s := epidemic.Baseline()
	if fs.NArg() > 0 {
		loaded, err := epidemic.LoadScenario(fs.Arg(0))
		if err != nil {
			return err
		}
		s = loaded
	}

	params := s.Parameters
	if *setFlags != "" {
		overrides, err := parseKeyValue(*setFlags)
		if err != nil {
			return fmt.Errorf("parse overrides: %w", err)
		}
		for name, value := range overrides {
			params, err = sweep.SetParam(params, name, value)
			if err != nil {
				return err
			}
		}
	}

	value, err := nextgen.R0(params)
	if err != nil {
		return err
	}

	fmt.Printf("R0 = %.4f\n", value)
	if value > 1 {
		fmt.Println("The epidemic grows: each case causes more than one new case.")
	} else {
		fmt.Println("The epidemic dies out: each case causes less than one new case.")
	}
	return nil
}
