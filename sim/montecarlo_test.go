package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonteCarlo_NominalCostCountsSteps(t *testing.T) {
	s, err := MonteCarlo(NewAsianParams(referenceMarket(), 100), 16, 250, rand.New(rand.NewPCG(1, 2)), CostNominal)
	require.NoError(t, err)
	assert.Equal(t, 250, s.N)
	assert.Equal(t, 250.0*16, s.Cost)
}

func TestMonteCarlo_InvalidArguments(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))
	params := NewAsianParams(referenceMarket(), 100)
	tests := []struct {
		name  string
		steps int
		paths int
		cost  CostModel
	}{
		{"zero steps", 0, 10, CostNominal},
		{"too many steps", 1<<maxSupportedLevel + 1, 10, CostNominal},
		{"zero paths", 4, 0, CostNominal},
		{"unknown cost model", 4, 10, "ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonteCarlo(params, tt.steps, tt.paths, src, tt.cost)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestEngineMonteCarlo_DeterministicAcrossWorkers(t *testing.T) {
	params := NewBarrierParams(referenceMarket(), 100, 120, false)
	a, err := newTestEngine(t, EngineConfig{Seed: 3, ChunkSize: 100, Workers: 1}).MonteCarlo(params, 8, 5000)
	require.NoError(t, err)
	b, err := newTestEngine(t, EngineConfig{Seed: 3, ChunkSize: 100, Workers: 6}).MonteCarlo(params, 8, 5000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 5000, a.TotalSamples())
}

func TestEngineMonteCarlo_BlackScholesLimit(t *testing.T) {
	// A barrier far above the spot is never reached; the payoff is a vanilla call.
	m := referenceMarket()
	est, err := newTestEngine(t, EngineConfig{Seed: 4}).MonteCarlo(NewBarrierParams(m, 100, 1e9, false), 1, 200000)
	require.NoError(t, err)
	assert.InDelta(t, BlackScholesCall(m, 100), est.Price, 4*est.StdErr)
}

func TestMonteCarloToTolerance(t *testing.T) {
	// GIVEN a target accuracy
	e := newTestEngine(t, EngineConfig{Seed: 5})
	eps := 0.1

	// WHEN the run is sized from a pilot
	est, err := e.MonteCarloToTolerance(NewAsianParams(referenceMarket(), 100), 16, 1000, eps)
	require.NoError(t, err)

	// THEN the standard error is close to eps/2
	assert.Less(t, est.StdErr, 1.15*eps/2)
	assert.Greater(t, est.StdErr, 0.85*eps/2)
}

func TestMonteCarloToTolerance_InvalidArguments(t *testing.T) {
	e := newTestEngine(t, EngineConfig{})
	params := NewAsianParams(referenceMarket(), 100)
	_, err := e.MonteCarloToTolerance(params, 4, 1, 0.1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = e.MonteCarloToTolerance(params, 4, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = e.MonteCarloToTolerance(params, 0, 100, 0.1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// A tolerance needing more paths than the sample limit is refused.
	_, err = e.MonteCarloToTolerance(params, 4, 100, 1e-6)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
