package sim

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Scenario is the top-level pricing configuration.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Market   Market         `yaml:"market"`
	Contract Contract       `yaml:"contract"`
	Eps      float64        `yaml:"eps"`
	MaxLevel *int           `yaml:"max_level,omitempty"` // nil = choose adaptively with Selector
	Engine   EngineConfig   `yaml:"engine"`
	Selector SelectorConfig `yaml:"selector"`
}

// DefaultScenario returns the reference market S0=100, mu=r=0.05, sigma=0.2,
// T=1 with an at-the-money Asian call and eps=0.05.
func DefaultScenario() Scenario {
	return Scenario{
		Market:   Market{Spot: 100, Drift: 0.05, Vol: 0.2, Maturity: 1, Rate: 0.05},
		Contract: Contract{Kind: OptionAsian, Strike: 100, Barrier: 120},
		Eps:      0.05,
		Engine:   DefaultEngineConfig(),
		Selector: DefaultSelectorConfig(),
	}
}

// LoadScenario reads and parses a YAML scenario file on top of DefaultScenario.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc := DefaultScenario()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Params returns the market and contract as PricingParams.
func (s *Scenario) Params() PricingParams {
	return PricingParams{Market: s.Market, Contract: s.Contract}
}

// Validate checks every section of the scenario. All violations are reported.
func (s *Scenario) Validate() error {
	err := s.Params().Validate()
	err = multierr.Append(err, validateEps(s.Eps))
	if s.MaxLevel != nil {
		err = multierr.Append(err, validateLevel(*s.MaxLevel))
	} else {
		err = multierr.Append(err, s.Selector.Validate())
	}
	err = multierr.Append(err, s.Engine.withDefaults().Validate())
	return err
}
