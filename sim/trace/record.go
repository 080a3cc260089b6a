// Package trace provides per-level run recording for MLMC convergence analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// LevelRecord captures the final statistics of one level of a run.
type LevelRecord struct {
	Level         int
	PilotSamples  int
	ExtraSamples  int
	Mean          float64 // mean discounted payoff (level 0) or correction
	Variance      float64 // NaN when fewer than two samples
	CostPerSample float64
}

// Samples returns pilot plus extra samples.
func (r LevelRecord) Samples() int {
	return r.PilotSamples + r.ExtraSamples
}

// RunRecord captures one pricing run.
type RunRecord struct {
	Kind     string // option kind, e.g. "asian"
	MaxLevel int
	Eps      float64 // target accuracy; 0 for fixed-size sweeps
	Price    float64
	StdErr   float64
	Levels   []LevelRecord
}

// TotalCost returns the sum over levels of samples times cost per sample.
func (r RunRecord) TotalCost() float64 {
	total := 0.0
	for _, l := range r.Levels {
		total += float64(l.Samples()) * l.CostPerSample
	}
	return total
}
