package sim

import "math"

// LevelStatistics aggregates the samples of one level: count, sum and sum of
// squares of the discounted payoff (level 0) or correction (level > 0), and the
// total cost spent producing them.
//
// It is a value type. Observe mutates the receiver and is reserved for the
// estimator that owns the batch; Combine is pure, associative and commutative,
// so partial results from concurrent batches merge in any order.
type LevelStatistics struct {
	N     int
	Sum   float64
	SumSq float64
	Cost  float64 // total cost units; CostPerSample = Cost/N
}

// Observe adds one sample.
func (s *LevelStatistics) Observe(x float64) {
	s.N++
	s.Sum += x
	s.SumSq += x * x
}

// Combine returns the statistics of the union of both batches.
func (s LevelStatistics) Combine(o LevelStatistics) LevelStatistics {
	return LevelStatistics{
		N:     s.N + o.N,
		Sum:   s.Sum + o.Sum,
		SumSq: s.SumSq + o.SumSq,
		Cost:  s.Cost + o.Cost,
	}
}

// CombineAll folds batches left to right.
func CombineAll(batches ...LevelStatistics) LevelStatistics {
	var out LevelStatistics
	for _, b := range batches {
		out = out.Combine(b)
	}
	return out
}

// Mean returns Sum/N, or 0 for an empty batch.
func (s LevelStatistics) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the unbiased sample variance
// (SumSq - N*mean^2) / (N-1). Fails with ErrDegenerateSample when N < 2.
// Rounding can push the pooled formula slightly below zero; it is clamped at 0.
func (s LevelStatistics) Variance() (float64, error) {
	if s.N < 2 {
		return math.NaN(), ErrDegenerateSample
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
	if v < 0 {
		v = 0
	}
	return v, nil
}

// MeanVariance returns Var/N, the variance of the level mean, or +Inf when
// the batch is degenerate.
func (s LevelStatistics) MeanVariance() float64 {
	v, err := s.Variance()
	if err != nil {
		return math.Inf(1)
	}
	return v / float64(s.N)
}

// StdErr returns sqrt(Var/N), +Inf when degenerate.
func (s LevelStatistics) StdErr() float64 {
	return math.Sqrt(s.MeanVariance())
}

// CostPerSample returns Cost/N, or 0 for an empty batch.
func (s LevelStatistics) CostPerSample() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Cost / float64(s.N)
}
