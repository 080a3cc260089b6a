package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

// priceCmd prices at --max-level, or at an adaptively chosen level when unset
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price an option with MLMC",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveScenario(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return runPrice(cmd.OutOrStdout(), sc)
	},
}

// selectLevelCmd runs only the adaptive bias test
var selectLevelCmd = &cobra.Command{
	Use:   "select-level",
	Short: "Choose the maximum level for a target accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveScenario(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return runSelectLevel(cmd.OutOrStdout(), sc)
	},
}

func runPrice(out io.Writer, sc *sim.Scenario) error {
	engine, err := sim.NewEngine(sc.Engine)
	if err != nil {
		return err
	}
	params := sc.Params()
	logrus.Infof("Pricing %s with eps=%g, seed=%d, workers=%d",
		describeContract(params.Contract), sc.Eps, engine.Config().Seed, engine.Config().Workers)

	var (
		est   sim.PriceEstimate
		level int
	)
	if sc.MaxLevel != nil {
		level = *sc.MaxLevel
		est, err = engine.Price(params, level, sc.Eps)
	} else {
		est, level, err = engine.PriceAdaptive(params, sc.Eps, sc.Selector)
	}
	if err != nil {
		return fmt.Errorf("pricing: %w", err)
	}

	printEstimate(out, "MLMC Price", params.Contract, level, sc.Eps, est)
	printLevels(out, est)
	if engine.Trace() != nil {
		printSummary(out, trace.Summarize(engine.Trace()))
	}
	return nil
}

func runSelectLevel(out io.Writer, sc *sim.Scenario) error {
	engine, err := sim.NewEngine(sc.Engine)
	if err != nil {
		return err
	}
	level, err := engine.ChooseMaxLevel(sc.Params(), sc.Eps, sc.Selector)
	if err != nil {
		return fmt.Errorf("selecting level: %w", err)
	}
	fmt.Fprintf(out, "=== Level Selection ===\n")
	fmt.Fprintf(out, "Option     : %s\n", describeContract(sc.Contract))
	fmt.Fprintf(out, "Target eps : %g\n", sc.Eps)
	fmt.Fprintf(out, "Bounds     : [%d, %d]\n", sc.Selector.MinLevel, sc.Selector.MaxLevel)
	fmt.Fprintf(out, "Max level  : %d (%d fine steps)\n", level, sim.FineSteps(level))
	return nil
}
