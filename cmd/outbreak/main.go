package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "r0":
		if err := r0Cmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "scenario":
		if err := scenarioCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "simulate":
		if err := simulateCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweepCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plotCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compare":
		if err := compareCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runsCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("outbreak version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`outbreak - epidemic modeling and simulation tool

Usage:
  outbreak <command> [options]

Commands:
  r0         Compute the basic reproduction number for a scenario
  scenario   Write a scenario template to edit
  simulate   Integrate a scenario and write results
  sweep      Parameter sensitivity analysis and range sweeps
  plot       Generate an SVG chart from results
  compare    Compare two simulation results
  runs       List, show and manage archived runs
  help       Show this help message
  version    Show version information

Examples:
  # Start from the built-in baseline scenario
  outbreak scenario --output scenario.json

  # Compute R0 without integrating
  outbreak r0 scenario.json

  # Run a simulation and archive it
  outbreak simulate scenario.json --output results.json --db runs.db

  # Chart the infectious compartments
  outbreak plot results.json --compartments Ip,Ia,Is --output plot.svg

  # Rank parameters by their effect on the attack rate
  outbreak sweep scenario.json --objective attack

For command-specific help, run:
  outbreak <command> --help`)
}
