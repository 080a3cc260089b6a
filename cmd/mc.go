package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
)

var (
	mcSteps int // Time steps per path
	mcPaths int // Fixed path count; 0 sizes the run to --eps
	mcPilot int // Pilot paths used for sizing
)

// mcCmd prices with plain single-level Monte Carlo as a reference
var mcCmd = &cobra.Command{
	Use:   "mc",
	Short: "Price with plain Monte Carlo at a fixed step count",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := resolveScenario(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return runMonteCarlo(cmd.OutOrStdout(), sc, mcSteps, mcPaths, mcPilot)
	},
}

func runMonteCarlo(out io.Writer, sc *sim.Scenario, steps, paths, pilot int) error {
	engine, err := sim.NewEngine(sc.Engine)
	if err != nil {
		return err
	}
	params := sc.Params()
	var est sim.PriceEstimate
	if paths > 0 {
		est, err = engine.MonteCarlo(params, steps, paths)
	} else {
		est, err = engine.MonteCarloToTolerance(params, steps, pilot, sc.Eps)
	}
	if err != nil {
		return fmt.Errorf("plain Monte Carlo: %w", err)
	}

	fmt.Fprintf(out, "=== Plain Monte Carlo ===\n")
	fmt.Fprintf(out, "Option        : %s\n", describeContract(params.Contract))
	fmt.Fprintf(out, "Steps         : %d\n", steps)
	fmt.Fprintf(out, "Price         : %.6f\n", est.Price)
	fmt.Fprintf(out, "Std error     : %s\n", formatFloat(est.StdErr))
	fmt.Fprintf(out, "Total samples : %d\n", est.TotalSamples())
	if params.Contract.Kind == sim.OptionBarrier {
		fmt.Fprintf(out, "Continuous    : %.6f\n", sim.UpAndOutCall(params.Market, params.Contract.Strike, params.Contract.Barrier))
	}
	return nil
}

func init() {
	mcCmd.Flags().IntVar(&mcSteps, "steps", 64, "Time steps per path")
	mcCmd.Flags().IntVar(&mcPaths, "paths", 0, "Number of paths (default: sized so the standard error is eps/2)")
	mcCmd.Flags().IntVar(&mcPilot, "mc-pilot", 1000, "Pilot paths used to size the run")
}
