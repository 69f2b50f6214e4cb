package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/outbreak-xyz/go-outbreak/sweep"
)

// SweepReport is the serializable document for a sensitivity analysis.
type SweepReport struct {
	Version   string        `json:"version"`
	RunID     string        `json:"runId"`
	Timestamp time.Time     `json:"timestamp"`
	Scenario  string        `json:"scenario"`
	Objective string        `json:"objective"`
	Baseline  float64       `json:"baseline"`
	Rankings  []SweepImpact `json:"rankings"`
}

// SweepImpact is one parameter's effect on the objective.
type SweepImpact struct {
	Parameter string  `json:"parameter"`
	Score     float64 `json:"score"`
	Impact    float64 `json:"impact"`
	Rank      int     `json:"rank"`
}

// NewSweepReport converts an analysis result into a report document.
func NewSweepReport(scenario, objective string, r *sweep.Result) *SweepReport {
	report := &SweepReport{
		Version:   SchemaVersion,
		RunID:     uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Scenario:  scenario,
		Objective: objective,
		Baseline:  r.Baseline,
	}
	for i, rp := range r.Ranking {
		report.Rankings = append(report.Rankings, SweepImpact{
			Parameter: rp.Name,
			Score:     r.Scores[rp.Name],
			Impact:    rp.Impact,
			Rank:      i + 1,
		})
	}
	return report
}
