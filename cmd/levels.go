package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

// defaultSweepLevel is the deepest level swept when --max-level is unset.
const defaultSweepLevel = 8

var sweepPaths int // Samples per level

// levelsCmd sweeps every level with a fixed sample count and reports decay rates
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Measure per-level mean, variance and cost with a fixed-size sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveScenario(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return runLevels(cmd.OutOrStdout(), sc, sweepPaths)
	},
}

func runLevels(out io.Writer, sc *sim.Scenario, paths int) error {
	cfg := sc.Engine
	cfg.Trace = trace.TraceLevelLevels
	engine, err := sim.NewEngine(cfg)
	if err != nil {
		return err
	}
	level := defaultSweepLevel
	if sc.MaxLevel != nil {
		level = *sc.MaxLevel
	}
	est, err := engine.SweepLevels(sc.Params(), level, paths)
	if err != nil {
		return fmt.Errorf("level sweep: %w", err)
	}

	printEstimate(out, "Level Sweep", sc.Contract, level, 0, est)
	printLevels(out, est)
	runs := engine.Trace().Runs()
	printRates(out, trace.EstimateRates(runs[len(runs)-1].Levels))
	return nil
}

func init() {
	levelsCmd.Flags().IntVar(&sweepPaths, "paths", 10000, "Samples per level")
}
