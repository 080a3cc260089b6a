package sim

import "math"

// PayoffFunc maps one path to an undiscounted payoff.
type PayoffFunc func(path []float64) float64

// AsianPayoff returns max(mean(path) - K, 0). The average includes path[0].
func AsianPayoff(path []float64, strike float64) float64 {
	sum := 0.0
	for _, s := range path {
		sum += s
	}
	return math.Max(sum/float64(len(path))-strike, 0)
}

// BarrierPayoff returns 0 if any monitored price is >= barrier, otherwise
// max(path[last] - K, 0).
func BarrierPayoff(path []float64, strike, barrier float64) float64 {
	for _, s := range path {
		if s >= barrier {
			return 0
		}
	}
	return math.Max(path[len(path)-1]-strike, 0)
}

// BarrierPayoffBridge is BarrierPayoff with a Brownian-bridge crossing test on
// every monitoring interval of length h whose endpoints both stay below the
// barrier: one uniform U is drawn per such interval and the option is knocked
// out when U < BridgeCrossProb.
func BarrierPayoffBridge(path []float64, strike, barrier, h, sigma float64, u UniformSource) float64 {
	if path[0] >= barrier {
		return 0
	}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if b >= barrier {
			return 0
		}
		if u.Float64() < BridgeCrossProb(a, b, barrier, h, sigma) {
			return 0
		}
	}
	return math.Max(path[len(path)-1]-strike, 0)
}

// BridgeCrossProb is the probability that a Brownian bridge in log space from
// log a to log b over time h, with variance sigma^2*h, exceeds log barrier.
// Both endpoints must lie below the barrier; otherwise the result is 1.
//
//	p = exp(-2 * log(B/a) * log(B/b) / (sigma^2 * h))
func BridgeCrossProb(a, b, barrier, h, sigma float64) float64 {
	if a >= barrier || b >= barrier {
		return 1
	}
	return math.Exp(-2 * math.Log(barrier/a) * math.Log(barrier/b) / (sigma * sigma * h))
}

// Correction returns payoff(fine) - payoff(coarse), undiscounted.
func Correction(fine, coarse []float64, payoff PayoffFunc) float64 {
	return payoff(fine) - payoff(coarse)
}

// CoarseUniform maps the two fine-interval uniforms of one coarse interval to
// the uniform used by the coarse bridge test: the probability-integral
// transform of min(u1, u2), 1 - (1 - min(u1,u2))^2.
func CoarseUniform(u1, u2 float64) float64 {
	m := 1 - math.Min(u1, u2)
	return 1 - m*m
}

// LevelPayoff evaluates the undiscounted quantity sampled at one MLMC level.
// h is the fine monitoring interval T/2^l.
type LevelPayoff interface {
	// Single prices one path of a single discretisation (level 0 and plain Monte Carlo).
	Single(path []float64, h float64, u UniformSource) float64
	// Correction prices fine minus coarse for a coupled pair.
	Correction(fine, coarse []float64, h float64, u UniformSource) float64
}

// NewLevelPayoff returns the LevelPayoff for the contract.
func NewLevelPayoff(p PricingParams) LevelPayoff {
	c := p.Contract
	switch {
	case c.Kind == OptionAsian:
		return asianLevelPayoff{strike: c.Strike}
	case c.Bridge:
		return bridgedBarrierLevelPayoff{strike: c.Strike, barrier: c.Barrier, sigma: p.Market.Vol}
	default:
		return barrierLevelPayoff{strike: c.Strike, barrier: c.Barrier}
	}
}

type asianLevelPayoff struct {
	strike float64
}

func (a asianLevelPayoff) payoff(path []float64) float64 {
	return AsianPayoff(path, a.strike)
}

func (a asianLevelPayoff) Single(path []float64, _ float64, _ UniformSource) float64 {
	return a.payoff(path)
}

func (a asianLevelPayoff) Correction(fine, coarse []float64, _ float64, _ UniformSource) float64 {
	return Correction(fine, coarse, a.payoff)
}

type barrierLevelPayoff struct {
	strike, barrier float64
}

func (b barrierLevelPayoff) payoff(path []float64) float64 {
	return BarrierPayoff(path, b.strike, b.barrier)
}

func (b barrierLevelPayoff) Single(path []float64, _ float64, _ UniformSource) float64 {
	return b.payoff(path)
}

func (b barrierLevelPayoff) Correction(fine, coarse []float64, _ float64, _ UniformSource) float64 {
	return Correction(fine, coarse, b.payoff)
}

type bridgedBarrierLevelPayoff struct {
	strike, barrier, sigma float64
}

func (b bridgedBarrierLevelPayoff) Single(path []float64, h float64, u UniformSource) float64 {
	return BarrierPayoffBridge(path, b.strike, b.barrier, h, b.sigma, u)
}

// survives reports whether the interval [s0, s1] passes both the discrete and
// the bridge test against uniform u.
func (b bridgedBarrierLevelPayoff) survives(s0, s1, h, u float64) bool {
	if s0 >= b.barrier || s1 >= b.barrier {
		return false
	}
	return u >= BridgeCrossProb(s0, s1, b.barrier, h, b.sigma)
}

// Correction draws two uniforms per coarse interval. The fine sub-intervals
// test against u1 and u2; the coarse interval tests against CoarseUniform(u1, u2)
// so that both bridge tests are driven by the same randomness.
func (b bridgedBarrierLevelPayoff) Correction(fine, coarse []float64, h float64, u UniformSource) float64 {
	fineAlive := fine[0] < b.barrier
	coarseAlive := coarse[0] < b.barrier
	for c := 1; c < len(coarse); c++ {
		u1 := u.Float64()
		u2 := u.Float64()
		f := 2*c - 1
		if fineAlive {
			fineAlive = b.survives(fine[f-1], fine[f], h, u1) && b.survives(fine[f], fine[f+1], h, u2)
		}
		if coarseAlive {
			coarseAlive = b.survives(coarse[c-1], coarse[c], 2*h, CoarseUniform(u1, u2))
		}
	}
	pf, pc := 0.0, 0.0
	if fineAlive {
		pf = math.Max(fine[len(fine)-1]-b.strike, 0)
	}
	if coarseAlive {
		pc = math.Max(coarse[len(coarse)-1]-b.strike, 0)
	}
	return pf - pc
}
