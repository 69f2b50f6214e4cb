// Package results defines the structured output format for simulation runs.
package results

import (
	"time"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
)

const SchemaVersion = "1.0.0"

// Results is the complete document for one run: scenario inputs, the
// basic reproduction number, the trajectory and derived analysis.
type Results struct {
	Version  string             `json:"version"`
	Metadata Metadata           `json:"metadata"`
	Scenario *epidemic.Scenario `json:"scenario"`
	R0       float64            `json:"r0"`
	Data     Data               `json:"results"`
	Analysis *Analysis          `json:"analysis,omitempty"`
}

// Metadata records how and when the run was produced.
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Solver      string    `json:"solver"`
	Status      string    `json:"status"` // success, error, unstable
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
	Steps       int       `json:"steps"`
}

// Data holds the trajectory and its summary.
type Data struct {
	Summary    Summary    `json:"summary"`
	Timeseries Timeseries `json:"timeseries"`
}

// Summary gives a quick overview without reading the full series.
type Summary struct {
	Points     int                `json:"points"`
	FinalTime  float64            `json:"finalTime"`
	FinalState map[string]float64 `json:"finalState"`
}

// Timeseries holds the time grid and per-compartment series, at the
// full resolution and optionally downsampled for display.
type Timeseries struct {
	Time         TimeData              `json:"time"`
	Compartments map[string]SeriesData `json:"compartments"`
}

// TimeData holds time vectors at different resolutions.
type TimeData struct {
	Full        []float64 `json:"full,omitempty"`
	Downsampled []float64 `json:"downsampled"`
}

// SeriesData holds values at different resolutions.
type SeriesData struct {
	Full        []float64 `json:"full,omitempty"`
	Downsampled []float64 `json:"downsampled"`
}

// Analysis contains insights computed from the trajectory.
type Analysis struct {
	Peaks        []Peak          `json:"peaks,omitempty"`
	AttackRate   float64         `json:"attackRate"`
	Conservation *Conservation   `json:"conservation,omitempty"`
	Statistics   map[string]Stat `json:"statistics,omitempty"`
}

// Peak marks a compartment's maximum over the run.
type Peak struct {
	Compartment string  `json:"compartment"`
	Time        float64 `json:"time"`
	Value       float64 `json:"value"`
}

// Conservation records the population balance over the run.
type Conservation struct {
	Initial   float64 `json:"initial"`
	Final     float64 `json:"final"`
	MaxDrift  float64 `json:"maxDrift"`
	Conserved bool    `json:"conserved"`
}

// Stat is a statistical summary of one series.
type Stat struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}
