package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// LevelPricer prices at a fixed maximum level. *Engine satisfies it.
type LevelPricer interface {
	Price(params PricingParams, maxLevel int, eps float64) (PriceEstimate, error)
}

// InitialLevel is the theory-based starting level ceil(log2(T/h)) for the
// step size h = (eps/2)^(1/alpha) that makes an O(h^alpha) bias equal eps/2.
// The result saturates at +-maxSupportedLevel, including when h underflows.
func InitialLevel(maturity, eps, alpha float64) int {
	h := math.Pow(eps/2, 1/alpha)
	x := math.Ceil(math.Log2(maturity / h))
	switch {
	case x >= maxSupportedLevel:
		return maxSupportedLevel
	case x <= -maxSupportedLevel:
		return -maxSupportedLevel
	}
	return int(x)
}

// ChooseMaxLevel picks the smallest level L whose estimated bias
// |P(L+1) - P(L)| is within eps/2.
//
// The search starts at InitialLevel clamped to [MinLevel, MaxLevel-1] and
// prices both levels with the tightened accuracy eps/SafetyFactor. When no
// level is accepted before reaching MaxLevel, MaxLevel is returned. At most
// MaxLevel-MinLevel+1 bias tests are run, and each price is computed once.
func ChooseMaxLevel(pricer LevelPricer, params PricingParams, eps float64, cfg SelectorConfig) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	if err := validateEps(eps); err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if cfg.MinLevel == cfg.MaxLevel {
		return cfg.MinLevel, nil
	}

	level := InitialLevel(params.Market.Maturity, eps, cfg.Alpha)
	level = max(cfg.MinLevel, min(level, cfg.MaxLevel-1))
	inner := eps / cfg.SafetyFactor

	prices := make(map[int]float64)
	priceAt := func(l int) (float64, error) {
		if p, ok := prices[l]; ok {
			return p, nil
		}
		est, err := pricer.Price(params, l, inner)
		if err != nil {
			return 0, err
		}
		prices[l] = est.Price
		return est.Price, nil
	}

	for {
		pL, err := priceAt(level)
		if err != nil {
			return 0, err
		}
		pNext, err := priceAt(level + 1)
		if err != nil {
			return 0, err
		}
		diff := math.Abs(pNext - pL)
		accepted := diff <= eps/2
		logrus.Infof("bias test L=%d: |P(%d)-P(%d)|=%.6f, budget %.6f, accepted=%v",
			level, level+1, level, diff, eps/2, accepted)
		if accepted {
			return level, nil
		}
		level++
		if level >= cfg.MaxLevel {
			return cfg.MaxLevel, nil
		}
	}
}

// ChooseMaxLevel runs the adaptive bias test with this engine as pricer.
func (e *Engine) ChooseMaxLevel(params PricingParams, eps float64, cfg SelectorConfig) (int, error) {
	return ChooseMaxLevel(e, params, eps, cfg)
}

// PriceAdaptive chooses the maximum level and then prices at accuracy eps.
func (e *Engine) PriceAdaptive(params PricingParams, eps float64, cfg SelectorConfig) (PriceEstimate, int, error) {
	level, err := e.ChooseMaxLevel(params, eps, cfg)
	if err != nil {
		return PriceEstimate{}, 0, err
	}
	est, err := e.Price(params, level, eps)
	return est, level, err
}
