package trace

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Rates are the MLMC convergence exponents fitted over levels >= 1:
// |mean_l| ~ 2^(-Alpha*l), Var_l ~ 2^(-Beta*l), cost_l ~ 2^(Gamma*l).
// A rate is NaN when fewer than two levels carry a positive value.
type Rates struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// EstimateRates fits the convergence exponents by least squares on log2 values.
// Level 0 is excluded since it holds the payoff, not a correction.
func EstimateRates(levels []LevelRecord) Rates {
	var means, vars, costs [2][]float64
	for _, r := range levels {
		if r.Level < 1 {
			continue
		}
		x := float64(r.Level)
		if m := math.Abs(r.Mean); m > 0 {
			means[0] = append(means[0], x)
			means[1] = append(means[1], math.Log2(m))
		}
		if r.Variance > 0 {
			vars[0] = append(vars[0], x)
			vars[1] = append(vars[1], math.Log2(r.Variance))
		}
		if r.CostPerSample > 0 {
			costs[0] = append(costs[0], x)
			costs[1] = append(costs[1], math.Log2(r.CostPerSample))
		}
	}
	return Rates{
		Alpha: -slope(means[0], means[1]),
		Beta:  -slope(vars[0], vars[1]),
		Gamma: slope(costs[0], costs[1]),
	}
}

func slope(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	return beta
}

// TraceSummary aggregates statistics from a PricingTrace.
type TraceSummary struct {
	TotalRuns    int
	TotalSamples int
	TotalCost    float64
	MaxStdErr    float64
	LastRates    Rates // rates of the most recent run; NaN fields when no runs
}

// Summarize computes aggregate statistics from a PricingTrace.
// Safe for nil or empty traces.
func Summarize(pt *PricingTrace) *TraceSummary {
	summary := &TraceSummary{
		LastRates: Rates{Alpha: math.NaN(), Beta: math.NaN(), Gamma: math.NaN()},
	}
	if pt == nil {
		return summary
	}
	runs := pt.Runs()
	summary.TotalRuns = len(runs)
	for _, r := range runs {
		for _, l := range r.Levels {
			summary.TotalSamples += l.Samples()
		}
		summary.TotalCost += r.TotalCost()
		if r.StdErr > summary.MaxStdErr {
			summary.MaxStdErr = r.StdErr
		}
	}
	if len(runs) > 0 {
		summary.LastRates = EstimateRates(runs[len(runs)-1].Levels)
	}
	return summary
}
