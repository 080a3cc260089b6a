package sim

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Closed-form prices under GBM with drift mu, discounted at r. They are
// written with a continuous yield q = r - mu so the textbook risk-neutral
// formulas apply unchanged; for mu = r they are the usual prices.

// BlackScholesCall prices a European call.
func BlackScholesCall(m Market, strike float64) float64 {
	s, t, r, sigma := m.Spot, m.Maturity, m.Rate, m.Vol
	q := r - m.Drift
	if strike <= 0 {
		return s * math.Exp(-q*t)
	}
	sig := sigma * math.Sqrt(t)
	d1 := (math.Log(s/strike) + (m.Drift+0.5*sigma*sigma)*t) / sig
	d2 := d1 - sig
	n := distuv.UnitNormal
	return s*math.Exp(-q*t)*n.CDF(d1) - strike*math.Exp(-r*t)*n.CDF(d2)
}

// UpAndOutCall prices a continuously-monitored up-and-out call: the
// h -> 0 limit of the discretely-monitored barrier option. It is the vanilla
// call less the up-and-in call (Hull, barrier K < B case).
func UpAndOutCall(m Market, strike, barrier float64) float64 {
	s, t, r, sigma := m.Spot, m.Maturity, m.Rate, m.Vol
	if s >= barrier || strike >= barrier {
		return 0
	}
	q := r - m.Drift
	sig := sigma * math.Sqrt(t)
	lambda := (m.Drift + 0.5*sigma*sigma) / (sigma * sigma)
	x1 := math.Log(s/barrier)/sig + lambda*sig
	y1 := math.Log(barrier/s)/sig + lambda*sig

	n := distuv.UnitNormal
	ds := s * math.Exp(-q*t)
	dk := strike * math.Exp(-r*t)
	hs := barrier / s

	upIn := ds*n.CDF(x1) - dk*n.CDF(x1-sig)
	if strike > 0 {
		y := math.Log(barrier*barrier/(s*strike))/sig + lambda*sig
		upIn += -ds*math.Pow(hs, 2*lambda)*(n.CDF(-y)-n.CDF(-y1)) +
			dk*math.Pow(hs, 2*lambda-2)*(n.CDF(-y+sig)-n.CDF(-y1+sig))
	} else {
		upIn += ds * math.Pow(hs, 2*lambda) * n.CDF(-y1)
	}
	return math.Max(BlackScholesCall(m, strike)-upIn, 0)
}
