package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	sim "github.com/mlmc-sim/mlmc-sim/sim"
	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t
}

func describeContract(c sim.Contract) string {
	if c.Kind == sim.OptionBarrier {
		return fmt.Sprintf("%s (K=%g, B=%g, bridge=%v)", c.Kind, c.Strike, c.Barrier, c.Bridge)
	}
	return fmt.Sprintf("%s (K=%g)", c.Kind, c.Strike)
}

// printEstimate writes the headline numbers of a pricing run.
func printEstimate(out io.Writer, title string, c sim.Contract, level int, eps float64, est sim.PriceEstimate) {
	fmt.Fprintf(out, "=== %s ===\n", title)
	fmt.Fprintf(out, "Option        : %s\n", describeContract(c))
	fmt.Fprintf(out, "Max level     : %d\n", level)
	if eps > 0 {
		fmt.Fprintf(out, "Target eps    : %g\n", eps)
	}
	fmt.Fprintf(out, "Price         : %.6f\n", est.Price)
	fmt.Fprintf(out, "Std error     : %s\n", formatFloat(est.StdErr))
	fmt.Fprintf(out, "Total samples : %d\n", est.TotalSamples())
	fmt.Fprintf(out, "Total cost    : %.6g\n", est.TotalCost())
}

// printLevels renders the per-level statistics of est as a table.
func printLevels(out io.Writer, est sim.PriceEstimate) {
	t := newTable(out)
	t.AppendHeader(table.Row{"level", "samples", "mean", "variance", "cost/sample"})
	for l, s := range est.Levels {
		v, err := s.Variance()
		if err != nil {
			v = math.NaN()
		}
		t.AppendRow(table.Row{l, s.N, formatFloat(s.Mean()), formatFloat(v), formatFloat(s.CostPerSample())})
	}
	t.Render()
}

func printRates(out io.Writer, r trace.Rates) {
	fmt.Fprintf(out, "Rates (levels >= 1): alpha=%s beta=%s gamma=%s\n",
		formatFloat(r.Alpha), formatFloat(r.Beta), formatFloat(r.Gamma))
}

func printSummary(out io.Writer, s *trace.TraceSummary) {
	fmt.Fprintf(out, "=== Trace Summary ===\n")
	fmt.Fprintf(out, "Runs          : %d\n", s.TotalRuns)
	fmt.Fprintf(out, "Samples       : %d\n", s.TotalSamples)
	fmt.Fprintf(out, "Cost          : %.6g\n", s.TotalCost)
	fmt.Fprintf(out, "Max std error : %s\n", formatFloat(s.MaxStdErr))
	printRates(out, s.LastRates)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "+Inf"
	default:
		return fmt.Sprintf("%.6g", v)
	}
}
