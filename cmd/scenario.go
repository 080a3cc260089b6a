package cmd

import (
	"github.com/sirupsen/logrus"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

// resolveScenario loads --scenario (or the defaults), applies explicitly set
// flags on top, and validates the result. changed is cmd.Flags().Changed.
func resolveScenario(changed func(name string) bool) (*sim.Scenario, error) {
	sc := sim.DefaultScenario()
	if scenarioPath != "" {
		loaded, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		sc = *loaded
		logrus.Infof("Loaded scenario from %s", scenarioPath)
	}
	applyOverrides(&sc, changed)
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// applyOverrides copies flag values into sc for every flag the user set.
// Unset flags never replace scenario values.
func applyOverrides(sc *sim.Scenario, changed func(name string) bool) {
	if changed("s0") {
		sc.Market.Spot = spot
	}
	if changed("mu") {
		sc.Market.Drift = drift
	}
	if changed("sigma") {
		sc.Market.Vol = vol
	}
	if changed("t") {
		sc.Market.Maturity = maturity
	}
	if changed("r") {
		sc.Market.Rate = rate
	}
	if changed("kind") {
		sc.Contract.Kind = sim.OptionKind(optionKind)
	}
	if changed("strike") {
		sc.Contract.Strike = strike
	}
	if changed("barrier") {
		sc.Contract.Barrier = barrier
	}
	if changed("bridge") {
		sc.Contract.Bridge = bridge
	}
	if changed("eps") {
		sc.Eps = eps
	}
	if changed("max-level") {
		l := maxLevel
		sc.MaxLevel = &l
	}
	if changed("seed") {
		sc.Engine.Seed = seed
	}
	if changed("pilot-samples") {
		sc.Engine.PilotSamples = pilotSamples
	}
	if changed("chunk-size") {
		sc.Engine.ChunkSize = chunkSize
	}
	if changed("workers") {
		sc.Engine.Workers = workers
	}
	if changed("cost-model") {
		sc.Engine.CostModel = sim.CostModel(costModel)
	}
	if changed("trace") {
		sc.Engine.Trace = trace.TraceLevel(traceLevel)
	}
	if changed("alpha") {
		sc.Selector.Alpha = alpha
	}
	if changed("min-level") {
		sc.Selector.MinLevel = minLevel
	}
	if changed("max-level-cap") {
		sc.Selector.MaxLevel = maxLevelCap
	}
	if changed("safety-factor") {
		sc.Selector.SafetyFactor = safetyFactor
	}
}
