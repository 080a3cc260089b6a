package sim

import (
	"time"
)

// CostModel selects how per-sample cost is charged to LevelStatistics.
type CostModel string

const (
	// CostMeasured charges elapsed wall-clock seconds.
	CostMeasured CostModel = "measured"
	// CostNominal charges simulated time steps: 1 at level 0 and
	// 2^l + 2^(l-1) at level l (fine plus coarse path). Deterministic.
	CostNominal CostModel = "nominal"
)

var validCostModels = map[CostModel]bool{
	CostMeasured: true,
	CostNominal:  true,
}

// IsValidCostModel reports whether name is a recognized cost model.
func IsValidCostModel(name string) bool {
	return validCostModels[CostModel(name)]
}

// NominalCost is the number of simulated time steps per sample at level l.
func NominalCost(level int) float64 {
	if level == 0 {
		return 1
	}
	n := FineSteps(level)
	return float64(n + n/2)
}

// EstimateLevel draws nPaths samples of the given level from src.
//
// Level 0 samples the discounted payoff of single-step paths (the coarsest
// estimator P_0). Level l > 0 samples the discounted fine-minus-coarse
// correction of coupled pairs. n_paths = 1 is accepted; the resulting
// statistics then report ErrDegenerateSample from Variance.
func EstimateLevel(params PricingParams, level, nPaths int, src Source, cost CostModel) (LevelStatistics, error) {
	if err := params.Validate(); err != nil {
		return LevelStatistics{}, err
	}
	if err := validateLevel(level); err != nil {
		return LevelStatistics{}, err
	}
	if err := validatePaths(nPaths); err != nil {
		return LevelStatistics{}, err
	}
	if !validCostModels[cost] {
		return LevelStatistics{}, invalidf("unknown cost model %q; valid: measured, nominal", cost)
	}
	return newLevelSampler(params, level).run(nPaths, src, cost), nil
}

// pathSampler evaluates one sample per call, reusing its path buffers.
// Not safe for concurrent use; the engine creates one per chunk.
type pathSampler struct {
	coupled  bool
	h        float64 // fine monitoring interval
	discount float64
	nominal  float64
	payoff   LevelPayoff
	single   stepper
	pair     coupledStepper
	fine     []float64
	coarse   []float64
}

// newLevelSampler returns the sampler for MLMC level l.
func newLevelSampler(params PricingParams, level int) *pathSampler {
	if level == 0 {
		s := newSingleSampler(params, 1)
		s.nominal = NominalCost(0)
		return s
	}
	m := params.Market
	pair := newCoupledStepper(m, level)
	return &pathSampler{
		coupled:  true,
		h:        pair.fine.dt,
		discount: m.Discount(),
		nominal:  NominalCost(level),
		payoff:   NewLevelPayoff(params),
		pair:     pair,
		fine:     make([]float64, pair.fine.steps+1),
		coarse:   make([]float64, pair.coarse.steps+1),
	}
}

// newSingleSampler returns a sampler of single-discretisation paths with the
// given step count; level 0 is the steps = 1 case.
func newSingleSampler(params PricingParams, steps int) *pathSampler {
	m := params.Market
	st := newStepper(m, steps)
	return &pathSampler{
		h:        st.dt,
		discount: m.Discount(),
		nominal:  float64(steps),
		payoff:   NewLevelPayoff(params),
		single:   st,
		fine:     make([]float64, steps+1),
	}
}

func (s *pathSampler) sample(src Source) float64 {
	if !s.coupled {
		s.single.fill(s.fine, src)
		return s.discount * s.payoff.Single(s.fine, s.h, src)
	}
	s.pair.fill(s.fine, s.coarse, src)
	return s.discount * s.payoff.Correction(s.fine, s.coarse, s.h, src)
}

func (s *pathSampler) run(n int, src Source, cost CostModel) LevelStatistics {
	start := time.Now()
	var st LevelStatistics
	for i := 0; i < n; i++ {
		st.Observe(s.sample(src))
	}
	if cost == CostNominal {
		st.Cost = float64(n) * s.nominal
	} else {
		st.Cost = time.Since(start).Seconds()
	}
	return st
}
