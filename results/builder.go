package results

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/nextgen"
)

// Builder assembles a Results document from run output.
type Builder struct {
	results Results
}

// NewBuilder creates a builder with a fresh run ID and timestamp.
func NewBuilder() *Builder {
	return &Builder{
		results: Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.New().String(),
				Timestamp: time.Now().UTC(),
			},
		},
	}
}

// WithScenario records the scenario and its basic reproduction number.
func (b *Builder) WithScenario(s *epidemic.Scenario) *Builder {
	b.results.Scenario = s
	if r0, err := nextgen.R0(s.Parameters); err == nil {
		b.results.R0 = r0
	}
	return b
}

// WithTrajectory records a completed trajectory. downsampleTarget caps
// the downsampled series length; pass 0 to keep full resolution only.
func (b *Builder) WithTrajectory(tr *epidemic.Trajectory, solverName string, computeTime time.Duration, downsampleTarget int) *Builder {
	b.results.Metadata.Solver = solverName
	b.results.Metadata.Status = "success"
	b.results.Metadata.ComputeTime = computeTime.Seconds()
	b.results.Metadata.Steps = tr.Steps

	final := tr.Final()
	finalState := make(map[string]float64, len(tr.Compartments))
	for i, name := range tr.Compartments {
		finalState[name] = final[i]
	}
	b.results.Data.Summary = Summary{
		Points:     len(tr.T),
		FinalTime:  tr.T[len(tr.T)-1],
		FinalState: finalState,
	}

	timeDown := downsample(tr.T, downsampleTarget)
	b.results.Data.Timeseries = Timeseries{
		Time: TimeData{
			Full:        tr.T,
			Downsampled: timeDown,
		},
		Compartments: make(map[string]SeriesData, len(tr.Compartments)),
	}
	for _, name := range tr.Compartments {
		series := tr.Series(name)
		b.results.Data.Timeseries.Compartments[name] = SeriesData{
			Full:        series,
			Downsampled: downsampleAligned(tr.T, series, timeDown),
		}
	}

	return b
}

// WithError marks the run failed.
func (b *Builder) WithError(err error) *Builder {
	b.results.Metadata.Status = "error"
	b.results.Metadata.Error = err.Error()
	return b
}

// WithAnalysis attaches computed analysis.
func (b *Builder) WithAnalysis(a *Analysis) *Builder {
	b.results.Analysis = a
	return b
}

// Build returns the constructed document.
func (b *Builder) Build() *Results {
	return &b.results
}

// downsample thins data to approximately targetPoints, keeping the
// endpoints exact.
func downsample(data []float64, targetPoints int) []float64 {
	if targetPoints < 2 || len(data) <= targetPoints {
		return data
	}

	result := make([]float64, targetPoints)
	result[0] = data[0]
	result[targetPoints-1] = data[len(data)-1]

	step := float64(len(data)-1) / float64(targetPoints-1)
	for i := 1; i < targetPoints-1; i++ {
		idx := int(math.Round(float64(i) * step))
		result[i] = data[idx]
	}
	return result
}

// downsampleAligned picks the series values at the times chosen by
// downsample, so time and value vectors stay aligned.
func downsampleAligned(timeFull, series, timeDown []float64) []float64 {
	result := make([]float64, len(timeDown))
	for i, target := range timeDown {
		result[i] = series[closestIndex(timeFull, target)]
	}
	return result
}

func closestIndex(data []float64, target float64) int {
	if len(data) == 0 {
		return 0
	}
	minDist := math.Abs(data[0] - target)
	minIdx := 0
	for i := 1; i < len(data); i++ {
		if dist := math.Abs(data[i] - target); dist < minDist {
			minDist = dist
			minIdx = i
		}
	}
	return minIdx
}
