package sim

import "math"

// PathPair is a fine and a coarse path of the same level driven by shared
// normal draws. len(Fine) = 2^l + 1 and len(Coarse) = 2^(l-1) + 1.
type PathPair struct {
	Fine   []float64
	Coarse []float64
}

// SimulatePaths draws nPaths independent GBM trajectories of nSteps equal steps
// over [0, T] using the exact lognormal transition. Each path has nSteps+1
// prices; index 0 is S0.
func SimulatePaths(m Market, nSteps, nPaths int, src NormalSource) ([][]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if nSteps < 1 {
		return nil, invalidf("n_steps must be at least 1, got %d", nSteps)
	}
	if err := validatePaths(nPaths); err != nil {
		return nil, err
	}
	st := newStepper(m, nSteps)
	paths := make([][]float64, nPaths)
	for i := range paths {
		paths[i] = st.fill(make([]float64, nSteps+1), src)
	}
	return paths, nil
}

// SimulatePairs draws nPaths coupled fine/coarse pairs for level >= 1.
// Each coarse step is driven by (Z1+Z2)/sqrt(2) of the two fine draws it covers.
func SimulatePairs(m Market, level, nPaths int, src NormalSource) ([]PathPair, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	if level < 1 {
		return nil, invalidf("coupled paths need level >= 1, got %d", level)
	}
	if err := validatePaths(nPaths); err != nil {
		return nil, err
	}
	cs := newCoupledStepper(m, level)
	pairs := make([]PathPair, nPaths)
	for i := range pairs {
		fine := make([]float64, cs.fine.steps+1)
		coarse := make([]float64, cs.coarse.steps+1)
		cs.fill(fine, coarse, src)
		pairs[i] = PathPair{Fine: fine, Coarse: coarse}
	}
	return pairs, nil
}

// stepper holds the precomputed one-step lognormal transition
// S' = S * exp(drift + vol*Z), drift = (mu - sigma^2/2)*dt, vol = sigma*sqrt(dt).
type stepper struct {
	spot  float64
	steps int
	dt    float64
	drift float64
	vol   float64
}

func newStepper(m Market, steps int) stepper {
	dt := m.Maturity / float64(steps)
	return stepper{
		spot:  m.Spot,
		steps: steps,
		dt:    dt,
		drift: (m.Drift - 0.5*m.Vol*m.Vol) * dt,
		vol:   m.Vol * math.Sqrt(dt),
	}
}

func (st stepper) next(s, z float64) float64 {
	return s * math.Exp(st.drift+st.vol*z)
}

// fill writes one trajectory into dst, which must hold steps+1 values.
func (st stepper) fill(dst []float64, src NormalSource) []float64 {
	dst[0] = st.spot
	for t := 1; t <= st.steps; t++ {
		dst[t] = st.next(dst[t-1], src.NormFloat64())
	}
	return dst
}

// coupledStepper advances a fine path of 2^l steps and a coarse path of
// 2^(l-1) steps from the same normal draws.
type coupledStepper struct {
	fine   stepper
	coarse stepper
}

func newCoupledStepper(m Market, level int) coupledStepper {
	nFine := FineSteps(level)
	return coupledStepper{
		fine:   newStepper(m, nFine),
		coarse: newStepper(m, nFine/2),
	}
}

func (cs coupledStepper) fill(fine, coarse []float64, src NormalSource) {
	fine[0] = cs.fine.spot
	coarse[0] = cs.coarse.spot
	for c := 1; c <= cs.coarse.steps; c++ {
		z1 := src.NormFloat64()
		z2 := src.NormFloat64()
		f1 := 2*c - 1
		fine[f1] = cs.fine.next(fine[f1-1], z1)
		fine[f1+1] = cs.fine.next(fine[f1], z2)
		coarse[c] = cs.coarse.next(coarse[c-1], CoarseDriver(z1, z2))
	}
}

// CoarseDriver combines the two fine normal draws of one coarse step into a
// standard normal driving the coarse step.
func CoarseDriver(z1, z2 float64) float64 {
	return (z1 + z2) / math.Sqrt2
}
