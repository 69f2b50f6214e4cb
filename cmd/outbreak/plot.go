package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/plotter"
	"github.com/outbreak-xyz/go-outbreak/results"
)

func plotCmd(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")
	compartments := fs.String("compartments", "", "Comma-separated compartments to plot (default: all)")
	title := fs.String("title", "", "Chart title (default: scenario name)")
	width := fs.Float64("width", 800, "Chart width in pixels")
	height := fs.Float64("height", 500, "Chart height in pixels")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak plot <results.json> [options]

Render a results document as an SVG line chart.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  outbreak plot results.json --output plot.svg
  outbreak plot results.json --compartments Ip,Ia,Is --output infectious.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}
	tr, err := trajectoryFrom(res)
	if err != nil {
		return err
	}

	var names []string
	if *compartments != "" {
		for _, name := range strings.Split(*compartments, ",") {
			name = strings.TrimSpace(name)
			if tr.Series(name) == nil {
				return fmt.Errorf("unknown compartment %q", name)
			}
			names = append(names, name)
		}
	}

	chartTitle := *title
	if chartTitle == "" && res.Scenario != nil {
		chartTitle = res.Scenario.Name
	}

	if err := plotter.WriteSVG(tr, names, *width, *height, chartTitle, *output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote chart to %s\n", *output)
	return nil
}

// trajectoryFrom rebuilds a trajectory from an archived document,
// preferring the full-resolution series.
func trajectoryFrom(res *results.Results) (*epidemic.Trajectory, error) {
	ts := res.Data.Timeseries
	t := ts.Time.Full
	if len(t) == 0 {
		t = ts.Time.Downsampled
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("results document has no time series")
	}

	u := make([][]float64, len(t))
	for i := range u {
		u[i] = make([]float64, model.NumCompartments)
	}
	for j, name := range model.Compartments {
		series, ok := ts.Compartments[name]
		if !ok {
			return nil, fmt.Errorf("results document missing compartment %q", name)
		}
		vals := series.Full
		if len(vals) == 0 {
			vals = series.Downsampled
		}
		if len(vals) != len(t) {
			return nil, fmt.Errorf("compartment %q has %d points, want %d", name, len(vals), len(t))
		}
		for i := range t {
			u[i][j] = vals[i]
		}
	}

	tr := &epidemic.Trajectory{
		T:            t,
		U:            u,
		Compartments: model.Compartments,
	}
	if res.Scenario != nil {
		tr.Params = res.Scenario.Parameters
	}
	return tr, nil
}
