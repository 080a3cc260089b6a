package sim

import (
	"math"

	"go.uber.org/multierr"
)

// OptionKind selects the payoff family.
type OptionKind string

const (
	// OptionAsian is an arithmetic-average Asian call; the average includes S0.
	OptionAsian OptionKind = "asian"
	// OptionBarrier is a discretely-monitored up-and-out barrier call.
	OptionBarrier OptionKind = "barrier"
)

var validOptionKinds = map[OptionKind]bool{
	OptionAsian:   true,
	OptionBarrier: true,
}

// IsValidOptionKind reports whether kind names a supported payoff family.
func IsValidOptionKind(kind string) bool {
	return validOptionKinds[OptionKind(kind)]
}

// Market holds the GBM model parameters and the discount rate.
type Market struct {
	Spot     float64 `yaml:"s0"`    // initial price S0 (> 0)
	Drift    float64 `yaml:"mu"`    // GBM drift mu
	Vol      float64 `yaml:"sigma"` // volatility sigma (> 0)
	Maturity float64 `yaml:"t"`     // horizon T in years (> 0)
	Rate     float64 `yaml:"r"`     // continuously-compounded discount rate r
}

// Discount returns exp(-r*T).
func (m Market) Discount() float64 {
	return math.Exp(-m.Rate * m.Maturity)
}

// Validate checks the model parameters. All violations are reported.
func (m Market) Validate() error {
	var err error
	err = multierr.Append(err, validateFinitePositive("s0", m.Spot))
	err = multierr.Append(err, validateFinite("mu", m.Drift))
	err = multierr.Append(err, validateFinitePositive("sigma", m.Vol))
	err = multierr.Append(err, validateFinitePositive("t", m.Maturity))
	err = multierr.Append(err, validateFinite("r", m.Rate))
	return err
}

// Contract describes the option being priced.
type Contract struct {
	Kind    OptionKind `yaml:"kind"`
	Strike  float64    `yaml:"strike"`
	Barrier float64    `yaml:"barrier,omitempty"` // barrier options only
	Bridge  bool       `yaml:"bridge,omitempty"`  // Brownian-bridge crossing test, barrier options only
}

// Validate checks the contract terms. All violations are reported.
func (c Contract) Validate() error {
	var err error
	if !validOptionKinds[c.Kind] {
		err = multierr.Append(err, invalidf("unknown option kind %q; valid: asian, barrier", c.Kind))
	}
	if math.IsNaN(c.Strike) || math.IsInf(c.Strike, 0) || c.Strike < 0 {
		err = multierr.Append(err, invalidf("strike must be a finite non-negative number, got %v", c.Strike))
	}
	if c.Kind == OptionBarrier {
		err = multierr.Append(err, validateFinitePositive("barrier", c.Barrier))
	}
	return err
}

// PricingParams bundles everything needed to evaluate one level.
type PricingParams struct {
	Market   Market   `yaml:"market"`
	Contract Contract `yaml:"contract"`
}

// Validate checks both market and contract.
func (p PricingParams) Validate() error {
	return multierr.Append(p.Market.Validate(), p.Contract.Validate())
}

// NewAsianParams is a convenience constructor for an Asian call.
func NewAsianParams(m Market, strike float64) PricingParams {
	return PricingParams{Market: m, Contract: Contract{Kind: OptionAsian, Strike: strike}}
}

// NewBarrierParams is a convenience constructor for an up-and-out barrier call.
func NewBarrierParams(m Market, strike, barrier float64, bridge bool) PricingParams {
	return PricingParams{Market: m, Contract: Contract{Kind: OptionBarrier, Strike: strike, Barrier: barrier, Bridge: bridge}}
}

// FineSteps is the fine step count 2^level.
func FineSteps(level int) int {
	return 1 << uint(level)
}

func validateLevel(level int) error {
	if level < 0 {
		return invalidf("level must be non-negative, got %d", level)
	}
	if level > maxSupportedLevel {
		return invalidf("level must be at most %d, got %d", maxSupportedLevel, level)
	}
	return nil
}

func validatePaths(n int) error {
	if n < 1 {
		return invalidf("n_paths must be at least 1, got %d", n)
	}
	return nil
}
