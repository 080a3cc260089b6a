package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmc-sim/mlmc-sim/sim/internal/testutil"
)

func TestAsianPayoff(t *testing.T) {
	tests := []struct {
		name   string
		path   []float64
		strike float64
		want   float64
	}{
		// mean(100, 110, 120) = 110
		{"average includes S0", []float64{100, 110, 120}, 100, 10},
		{"out of the money", []float64{100, 90, 80}, 100, 0},
		{"zero strike", []float64{100, 102}, 0, 101},
		{"single point", []float64{105}, 100, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AsianPayoff(tt.path, tt.strike), 1e-12)
		})
	}
}

func TestBarrierPayoff(t *testing.T) {
	tests := []struct {
		name string
		path []float64
		want float64
	}{
		{"survives", []float64{100, 110, 115}, 15},
		{"touches barrier", []float64{100, 120, 115}, 0},
		{"crosses barrier", []float64{100, 125, 110}, 0},
		{"terminal on barrier", []float64{100, 110, 120}, 0},
		{"spot above barrier", []float64{121, 110, 115}, 0},
		{"out of the money", []float64{100, 95, 90}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BarrierPayoff(tt.path, 100, 120), 1e-12)
		})
	}
}

func TestBridgeCrossProb(t *testing.T) {
	a, b, barrier, h, sigma := 100.0, 105.0, 120.0, 0.25, 0.2
	want := math.Exp(-2 * math.Log(barrier/a) * math.Log(barrier/b) / (sigma * sigma * h))
	assert.Equal(t, want, BridgeCrossProb(a, b, barrier, h, sigma))

	// Probability rises as the endpoints approach the barrier.
	assert.Greater(t, BridgeCrossProb(115, 118, barrier, h, sigma), BridgeCrossProb(100, 105, barrier, h, sigma))
	// And with a longer interval.
	assert.Greater(t, BridgeCrossProb(a, b, barrier, 1, sigma), BridgeCrossProb(a, b, barrier, h, sigma))

	// Endpoints at or above the barrier are certain crossings.
	assert.Equal(t, 1.0, BridgeCrossProb(120, 100, barrier, h, sigma))
	assert.Equal(t, 1.0, BridgeCrossProb(100, 130, barrier, h, sigma))
}

func TestBarrierPayoffBridge_UniformDecidesKnockout(t *testing.T) {
	path := []float64{100, 115, 118}
	barrier, h, sigma := 120.0, 0.5, 0.2
	p1 := BridgeCrossProb(100, 115, barrier, h, sigma)
	p2 := BridgeCrossProb(115, 118, barrier, h, sigma)
	require.Greater(t, p1, 0.0)
	require.Less(t, p2, 1.0)

	tests := []struct {
		name      string
		uniforms  []float64
		want      float64
		drawsUsed int
	}{
		{"both intervals survive", []float64{p1 + (1-p1)/2, p2 + (1-p2)/2}, 18, 2},
		{"first interval crosses", []float64{p1 / 2}, 0, 1},
		{"second interval crosses", []float64{p1 + (1-p1)/2, p2 / 2}, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.NewScriptedSource(t, nil, tt.uniforms)
			got := BarrierPayoffBridge(path, 100, barrier, h, sigma, src)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.drawsUsed, src.UniformsUsed())
		})
	}
}

func TestBarrierPayoffBridge_DiscreteKnockoutDrawsNothing(t *testing.T) {
	src := testutil.NewScriptedSource(t, nil, nil)
	assert.Equal(t, 0.0, BarrierPayoffBridge([]float64{125, 110}, 100, 120, 0.5, 0.2, src))
	assert.Equal(t, 0, src.UniformsUsed())
}

func TestBarrierPayoffBridge_NeverExceedsDiscrete(t *testing.T) {
	// The bridge test can only knock out more paths.
	r := rand.New(rand.NewPCG(5, 6))
	m := referenceMarket()
	paths, err := SimulatePaths(m, 8, 2000, r)
	require.NoError(t, err)
	for _, p := range paths {
		bridged := BarrierPayoffBridge(p, 100, 120, m.Maturity/8, m.Vol, r)
		assert.LessOrEqual(t, bridged, BarrierPayoff(p, 100, 120))
	}
}

func TestCorrection(t *testing.T) {
	fine := []float64{100, 110, 120}
	coarse := []float64{100, 120}
	payoff := func(p []float64) float64 { return AsianPayoff(p, 100) }
	assert.InDelta(t, 10-10, Correction(fine, coarse, payoff), 1e-12)

	coarse = []float64{100, 104}
	assert.InDelta(t, 10-2, Correction(fine, coarse, payoff), 1e-12)
}

func TestCoarseUniform_IsUniform(t *testing.T) {
	// GIVEN independent uniforms
	r := rand.New(rand.NewPCG(7, 8))
	const n = 200000
	const bins = 10
	counts := make([]int, bins)
	for i := 0; i < n; i++ {
		u := CoarseUniform(r.Float64(), r.Float64())
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
		counts[int(u*bins)]++
	}

	// THEN the transformed value fills every decile evenly
	for b, c := range counts {
		assert.InDelta(t, n/bins, c, 0.03*n/bins, "bin %d", b)
	}
}

func TestCoarseUniform_Endpoints(t *testing.T) {
	assert.Equal(t, 0.0, CoarseUniform(0, 0.7))
	assert.InDelta(t, 0.75, CoarseUniform(0.5, 0.9), 1e-15)
}

func TestNewLevelPayoff_Variants(t *testing.T) {
	m := referenceMarket()
	assert.IsType(t, asianLevelPayoff{}, NewLevelPayoff(NewAsianParams(m, 100)))
	assert.IsType(t, barrierLevelPayoff{}, NewLevelPayoff(NewBarrierParams(m, 100, 120, false)))
	assert.IsType(t, bridgedBarrierLevelPayoff{}, NewLevelPayoff(NewBarrierParams(m, 100, 120, true)))
}

func TestBridgedCorrection_DrawsTwoUniformsPerCoarseInterval(t *testing.T) {
	// GIVEN a level-2 pair well below the barrier
	lp := NewLevelPayoff(NewBarrierParams(referenceMarket(), 100, 1000, true))
	fine := []float64{100, 101, 102, 103, 104}
	coarse := []float64{100, 102, 104}
	src := testutil.NewScriptedSource(t, nil, []float64{0.9, 0.9, 0.9, 0.9})

	// WHEN the correction is evaluated
	got := lp.Correction(fine, coarse, 0.25, src)

	// THEN both paths survive, the terminal payoffs cancel, and 2 draws per coarse step are used
	assert.InDelta(t, 0, got, 1e-12)
	assert.Equal(t, 4, src.UniformsUsed())
}

func TestBridgedCorrection_FineKnockedOutCoarseSurvives(t *testing.T) {
	// GIVEN a fine path that touches the barrier between coarse points
	lp := NewLevelPayoff(NewBarrierParams(referenceMarket(), 100, 120, true))
	fine := []float64{100, 121, 110}
	coarse := []float64{100, 110}
	pc := BridgeCrossProb(100, 110, 120, 1.0, 0.2)
	u := math.Min(1, pc+0.5*(1-pc))
	// CoarseUniform(u1, u2) with u1 = u2 = w equals 1-(1-w)^2; pick w so it lands above pc.
	w := 1 - math.Sqrt(1-u)
	src := testutil.NewScriptedSource(t, nil, []float64{w, w})

	got := lp.Correction(fine, coarse, 0.5, src)

	// THEN the correction is minus the coarse payoff
	assert.InDelta(t, -10, got, 1e-9)
}
