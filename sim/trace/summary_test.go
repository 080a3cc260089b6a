package trace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syntheticLevels builds records with |mean| = 2^-l, var = 2^-2l, cost = 2^l.
func syntheticLevels(maxLevel int) []LevelRecord {
	levels := make([]LevelRecord, 0, maxLevel+1)
	for l := 0; l <= maxLevel; l++ {
		x := float64(l)
		levels = append(levels, LevelRecord{
			Level:         l,
			PilotSamples:  100,
			Mean:          -math.Pow(2, -x),
			Variance:      math.Pow(2, -2*x),
			CostPerSample: math.Pow(2, x),
		})
	}
	// Level 0 is excluded from the fit; give it values that would spoil it.
	levels[0].Mean = 1000
	levels[0].Variance = 1000
	return levels
}

func TestEstimateRates_SyntheticPowerLaws_RecoversExponents(t *testing.T) {
	// GIVEN per-level records following exact power laws
	levels := syntheticLevels(6)

	// WHEN rates are fitted
	r := EstimateRates(levels)

	// THEN alpha=1, beta=2, gamma=1
	assert.InDelta(t, 1.0, r.Alpha, 1e-9)
	assert.InDelta(t, 2.0, r.Beta, 1e-9)
	assert.InDelta(t, 1.0, r.Gamma, 1e-9)
}

func TestEstimateRates_TooFewLevels_NaN(t *testing.T) {
	r := EstimateRates(syntheticLevels(1))
	assert.True(t, math.IsNaN(r.Alpha))
	assert.True(t, math.IsNaN(r.Beta))
	assert.True(t, math.IsNaN(r.Gamma))
}

func TestEstimateRates_SkipsZeroAndNaN(t *testing.T) {
	levels := syntheticLevels(5)
	levels[3].Mean = 0
	levels[4].Variance = math.NaN()

	r := EstimateRates(levels)

	assert.InDelta(t, 1.0, r.Alpha, 1e-9)
	assert.InDelta(t, 2.0, r.Beta, 1e-9)
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalRuns != 0 || summary.TotalSamples != 0 || summary.TotalCost != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if !math.IsNaN(summary.LastRates.Beta) {
		t.Errorf("expected NaN rates for empty trace, got %v", summary.LastRates.Beta)
	}
}

func TestSummarize_PopulatedTrace_CorrectTotals(t *testing.T) {
	// GIVEN two runs with known samples and costs
	pt := NewPricingTrace(TraceConfig{Level: TraceLevelLevels})
	pt.RecordRun(RunRecord{StdErr: 0.1, Levels: []LevelRecord{
		{Level: 0, PilotSamples: 10, ExtraSamples: 90, CostPerSample: 1},
	}})
	pt.RecordRun(RunRecord{StdErr: 0.3, Levels: syntheticLevels(4)})

	// WHEN summarized
	summary := Summarize(pt)

	// THEN totals cover both runs and rates come from the last run
	assert.Equal(t, 2, summary.TotalRuns)
	assert.Equal(t, 100+5*100, summary.TotalSamples)
	assert.InDelta(t, 100+100*(1+2+4+8+16), summary.TotalCost, 1e-9)
	assert.Equal(t, 0.3, summary.MaxStdErr)
	assert.InDelta(t, 2.0, summary.LastRates.Beta, 1e-9)
}
