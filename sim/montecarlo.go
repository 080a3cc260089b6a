package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// SubsystemReferencePilot is the RNG subsystem for the sizing batch of
// MonteCarloToTolerance.
const SubsystemReferencePilot = "reference-pilot"

// MonteCarlo draws nPaths single-level paths of nSteps steps from src and
// returns the statistics of the discounted payoff. Paths are not stored.
// With nSteps = 1 this is exactly the level-0 estimator.
func MonteCarlo(params PricingParams, nSteps, nPaths int, src Source, cost CostModel) (LevelStatistics, error) {
	if err := validateReference(params, nSteps, nPaths); err != nil {
		return LevelStatistics{}, err
	}
	if !validCostModels[cost] {
		return LevelStatistics{}, invalidf("unknown cost model %q; valid: measured, nominal", cost)
	}
	return newSingleSampler(params, nSteps).run(nPaths, src, cost), nil
}

// MonteCarlo prices with plain single-level Monte Carlo on the engine's
// reference streams, chunked and parallel like the MLMC levels.
func (e *Engine) MonteCarlo(params PricingParams, nSteps, nPaths int) (PriceEstimate, error) {
	return e.monteCarlo(params, SubsystemReference, nSteps, nPaths)
}

// MonteCarloToTolerance sizes a plain Monte Carlo run for standard error
// eps/2: a pilot of nPilot paths gives se0, then a fresh batch of
// ceil(nPilot * (2*se0/eps)^2) paths is priced.
func (e *Engine) MonteCarloToTolerance(params PricingParams, nSteps, nPilot int, eps float64) (PriceEstimate, error) {
	if err := validateEps(eps); err != nil {
		return PriceEstimate{}, err
	}
	if nPilot < 2 {
		return PriceEstimate{}, invalidf("pilot needs at least 2 paths, got %d", nPilot)
	}
	pilot, err := e.monteCarlo(params, SubsystemReferencePilot, nSteps, nPilot)
	if err != nil {
		return PriceEstimate{}, err
	}
	ratio := 2 * pilot.StdErr / eps
	want := math.Ceil(float64(nPilot) * ratio * ratio)
	if want > maxLevelSamples {
		return PriceEstimate{}, invalidf("plain MC needs %.3g paths, above the limit of %d; loosen eps", want, maxLevelSamples)
	}
	n := max(int(want), 2)
	logrus.Debugf("plain MC steps=%d eps=%g: pilot se=%.6f, sizing %d paths", nSteps, eps, pilot.StdErr, n)
	return e.monteCarlo(params, SubsystemReference, nSteps, n)
}

func (e *Engine) monteCarlo(params PricingParams, subsystem string, nSteps, nPaths int) (PriceEstimate, error) {
	if err := validateReference(params, nSteps, nPaths); err != nil {
		return PriceEstimate{}, err
	}
	jobs := []batchJob{{key: nSteps, n: nPaths}}
	stats, err := e.sampleChunked(subsystem, jobs, func(int) *pathSampler {
		return newSingleSampler(params, nSteps)
	})
	if err != nil {
		return PriceEstimate{}, err
	}
	return Telescope(stats), nil
}

func validateReference(params PricingParams, nSteps, nPaths int) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if nSteps < 1 {
		return invalidf("n_steps must be at least 1, got %d", nSteps)
	}
	if nSteps > 1<<maxSupportedLevel {
		return invalidf("n_steps must be at most %d, got %d", 1<<maxSupportedLevel, nSteps)
	}
	return validatePaths(nPaths)
}
