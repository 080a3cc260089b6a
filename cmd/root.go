package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
)

var (
	// CLI flags shared by every pricing command
	logLevel     string // Log verbosity level
	scenarioPath string // Optional YAML scenario file

	// Market
	spot     float64 // Initial price S0
	drift    float64 // GBM drift mu
	vol      float64 // Volatility sigma
	maturity float64 // Horizon T in years
	rate     float64 // Discount rate r

	// Contract
	optionKind string  // "asian" or "barrier"
	strike     float64 // Strike K
	barrier    float64 // Up-and-out barrier B
	bridge     bool    // Brownian-bridge crossing test for barrier options

	// Accuracy and levels
	eps      float64 // Target RMS accuracy
	maxLevel int     // Fixed maximum level; adaptive selection when unset

	// Engine
	seed         int64  // Master seed for all random streams
	pilotSamples int    // Pilot samples per level
	chunkSize    int    // Samples per random stream
	workers      int    // Concurrent chunks
	costModel    string // "measured" or "nominal"
	traceLevel   string // "none" or "levels"

	// Selector
	alpha        float64 // Assumed weak convergence order
	minLevel     int     // Smallest level the selector may return
	maxLevelCap  int     // Largest level the selector may return
	safetyFactor float64 // Bias tests price at eps/safety-factor
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mlmc-sim",
	Short: "Multilevel Monte Carlo pricer for path-dependent options under GBM",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
	SilenceUsage: true,
}

func setupLogging(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	logrus.SetLevel(level)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	def := sim.DefaultScenario()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario; flags override its values")

	flags.Float64Var(&spot, "s0", def.Market.Spot, "Initial price S0")
	flags.Float64Var(&drift, "mu", def.Market.Drift, "GBM drift")
	flags.Float64Var(&vol, "sigma", def.Market.Vol, "Volatility")
	flags.Float64Var(&maturity, "t", def.Market.Maturity, "Maturity in years")
	flags.Float64Var(&rate, "r", def.Market.Rate, "Continuously-compounded discount rate")

	flags.StringVar(&optionKind, "kind", string(def.Contract.Kind), "Option kind (asian, barrier)")
	flags.Float64Var(&strike, "strike", def.Contract.Strike, "Strike K")
	flags.Float64Var(&barrier, "barrier", def.Contract.Barrier, "Up-and-out barrier B (barrier options)")
	flags.BoolVar(&bridge, "bridge", false, "Apply the Brownian-bridge crossing test (barrier options)")

	flags.Float64Var(&eps, "eps", def.Eps, "Target accuracy")
	flags.IntVar(&maxLevel, "max-level", 0, "Fixed maximum level L (default: chosen adaptively)")

	flags.Int64Var(&seed, "seed", def.Engine.Seed, "Seed for all random streams")
	flags.IntVar(&pilotSamples, "pilot-samples", def.Engine.PilotSamples, "Pilot samples per level")
	flags.IntVar(&chunkSize, "chunk-size", def.Engine.ChunkSize, "Samples per random stream")
	flags.IntVar(&workers, "workers", def.Engine.Workers, "Concurrent sampling chunks")
	flags.StringVar(&costModel, "cost-model", string(def.Engine.CostModel), "Per-sample cost (measured, nominal)")
	flags.StringVar(&traceLevel, "trace", string(def.Engine.Trace), "Run trace detail (none, levels)")

	flags.Float64Var(&alpha, "alpha", def.Selector.Alpha, "Assumed weak order for the starting level")
	flags.IntVar(&minLevel, "min-level", def.Selector.MinLevel, "Smallest level the selector may choose")
	flags.IntVar(&maxLevelCap, "max-level-cap", def.Selector.MaxLevel, "Largest level the selector may choose")
	flags.Float64Var(&safetyFactor, "safety-factor", def.Selector.SafetyFactor, "Bias tests price at eps/safety-factor")

	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(selectLevelCmd)
	rootCmd.AddCommand(mcCmd)
	rootCmd.AddCommand(levelsCmd)
}
