package sim

import (
	"math"
	"runtime"

	"go.uber.org/multierr"

	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

// EngineConfig groups sampling parameters for NewEngine.
// Zero-valued fields are replaced by defaults in NewEngine; negative values are rejected.
type EngineConfig struct {
	Seed         int64            `yaml:"seed"`          // master seed for all streams
	PilotSamples int              `yaml:"pilot_samples"` // pilot batch size per level (default 500)
	ChunkSize    int              `yaml:"chunk_size"`    // samples per random stream (default 1024)
	Workers      int              `yaml:"workers"`       // concurrent chunks (default GOMAXPROCS)
	CostModel    CostModel        `yaml:"cost_model"`    // "measured" (default) or "nominal"
	Trace        trace.TraceLevel `yaml:"trace"`         // "none" (default) or "levels"
}

// DefaultEngineConfig returns the configuration used when fields are left zero.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Seed:         42,
		PilotSamples: 500,
		ChunkSize:    1024,
		Workers:      runtime.GOMAXPROCS(0),
		CostModel:    CostMeasured,
		Trace:        trace.TraceLevelNone,
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.PilotSamples == 0 {
		c.PilotSamples = d.PilotSamples
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.CostModel == "" {
		c.CostModel = d.CostModel
	}
	if c.Trace == "" {
		c.Trace = d.Trace
	}
	return c
}

// Validate checks the engine configuration. All violations are reported.
func (c EngineConfig) Validate() error {
	var err error
	if c.PilotSamples < 1 {
		err = multierr.Append(err, invalidf("pilot_samples must be at least 1, got %d", c.PilotSamples))
	}
	if c.ChunkSize < 1 {
		err = multierr.Append(err, invalidf("chunk_size must be at least 1, got %d", c.ChunkSize))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, invalidf("workers must be at least 1, got %d", c.Workers))
	}
	if !validCostModels[c.CostModel] {
		err = multierr.Append(err, invalidf("unknown cost_model %q; valid: measured, nominal", c.CostModel))
	}
	if !trace.IsValidTraceLevel(string(c.Trace)) {
		err = multierr.Append(err, invalidf("unknown trace level %q; valid: none, levels", c.Trace))
	}
	return err
}

// SelectorConfig groups the adaptive max-level search parameters.
type SelectorConfig struct {
	Alpha        float64 `yaml:"alpha"`         // assumed weak convergence order
	MinLevel     int     `yaml:"min_level"`     // L_min
	MaxLevel     int     `yaml:"max_level"`     // L_max
	SafetyFactor float64 `yaml:"safety_factor"` // bias runs use eps/SafetyFactor
}

// DefaultSelectorConfig returns alpha=1, L in [2, 14], safety factor 4.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Alpha:        1.0,
		MinLevel:     2,
		MaxLevel:     14,
		SafetyFactor: 4.0,
	}
}

// Validate checks the selector configuration. All violations are reported.
func (c SelectorConfig) Validate() error {
	var err error
	err = multierr.Append(err, validateFinitePositive("alpha", c.Alpha))
	err = multierr.Append(err, validateFinitePositive("safety_factor", c.SafetyFactor))
	if c.MinLevel < 0 {
		err = multierr.Append(err, invalidf("min_level must be non-negative, got %d", c.MinLevel))
	}
	if c.MinLevel > c.MaxLevel {
		err = multierr.Append(err, invalidf("min_level %d exceeds max_level %d", c.MinLevel, c.MaxLevel))
	}
	if c.MaxLevel >= maxSupportedLevel {
		err = multierr.Append(err, invalidf("max_level must be below %d, got %d", maxSupportedLevel, c.MaxLevel))
	}
	return err
}

// maxSupportedLevel bounds fine step counts to 2^30.
const maxSupportedLevel = 30

func validateEps(eps float64) error {
	if math.IsNaN(eps) || eps <= 0 || math.IsInf(eps, 0) {
		return invalidf("eps must be a finite positive number, got %v", eps)
	}
	return nil
}
