package sim

import (
	"fmt"
	"math"
)

// maxLevelSamples bounds a single level's allocation. Plans above it fail
// instead of being truncated, so the returned counts always honour eps.
const maxLevelSamples = 1 << 32

// AllocationPlan is the per-level outcome of Allocate, indexed by level.
type AllocationPlan struct {
	Optimal    []int // N_l, the variance/cost-optimal total sample count
	Additional []int // max(N_l - pilot N_l, 0), samples still to draw
}

// TotalAdditional returns the number of extra samples over all levels.
func (p AllocationPlan) TotalAdditional() int {
	total := 0
	for _, n := range p.Additional {
		total += n
	}
	return total
}

// Allocate computes the cost-minimising sample counts from pilot statistics:
//
//	N_l = ceil( (2/eps^2) * sqrt(V_l/C_l) * sum_k sqrt(V_k*C_k) )
//
// which bounds the sampling variance sum_l V_l/N_l by eps^2/2.
// A level whose pilot has fewer than two samples fails with ErrDegenerateSample.
// Non-positive measured costs are replaced by the smallest positive cost seen,
// or 1 when no level has a positive cost. A level needing more than
// maxLevelSamples fails with ErrInvalidParameter.
func Allocate(pilot []LevelStatistics, eps float64) (AllocationPlan, error) {
	if len(pilot) == 0 {
		return AllocationPlan{}, invalidf("allocation needs at least one level")
	}
	if err := validateEps(eps); err != nil {
		return AllocationPlan{}, err
	}

	vars := make([]float64, len(pilot))
	costs := make([]float64, len(pilot))
	minCost := math.Inf(1)
	for l, s := range pilot {
		v, err := s.Variance()
		if err != nil {
			return AllocationPlan{}, fmt.Errorf("level %d: %w", l, err)
		}
		vars[l] = v
		costs[l] = s.CostPerSample()
		if costs[l] > 0 && costs[l] < minCost {
			minCost = costs[l]
		}
	}
	if math.IsInf(minCost, 1) {
		minCost = 1
	}

	sumSqrtVC := 0.0
	for l := range pilot {
		if costs[l] <= 0 {
			costs[l] = minCost
		}
		sumSqrtVC += math.Sqrt(vars[l] * costs[l])
	}

	plan := AllocationPlan{
		Optimal:    make([]int, len(pilot)),
		Additional: make([]int, len(pilot)),
	}
	scale := 2 / (eps * eps) * sumSqrtVC
	for l := range pilot {
		n := math.Ceil(scale * math.Sqrt(vars[l]/costs[l]))
		if n > maxLevelSamples {
			return AllocationPlan{}, invalidf("level %d needs %.3g samples, above the limit of %d; loosen eps", l, n, maxLevelSamples)
		}
		plan.Optimal[l] = int(n)
		plan.Additional[l] = max(plan.Optimal[l]-pilot[l].N, 0)
	}
	return plan, nil
}
