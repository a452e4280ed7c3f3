package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/engine"
)

func newCompareCmd() *cobra.Command {
	var opts inputOpts

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run what-if scenarios and compare their results",
		Long: `Run the search once per scenario derived from the current settings (the
other strategy, two more seeds, a heavier waste weight and the
area-weighted centre of mass) and print the results side by side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, opts)
		},
	}
	addInputFlags(cmd, &opts)
	return cmd
}

func runCompare(cmd *cobra.Command, opts inputOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	in, err := loadInputs(cmd, opts, logger)
	if err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(in.settings)
	logger.Info("comparing scenarios", "count", len(scenarios))
	prog := newProgress(logger)

	results, err := engine.CompareScenarios(ctx, scenarios, in.board, in.components, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d scenarios", len(results)))

	printTitle(out, "Scenario comparison")
	fmt.Fprintln(out, renderTable(
		[]string{"Scenario", "Status", "Score", "Feasible", "Iterations", "Rate", "Elapsed"},
		comparisonRows(results),
	))

	if best := bestScenario(results); best >= 0 {
		printInfo(out, "Best: %s (score %.4f)", results[best].Scenario.Name, results[best].Score)
	} else {
		printWarning(out, "No scenario found a feasible placement")
	}
	return nil
}

func comparisonRows(results []engine.ComparisonResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Scenario.Name, "error", "-", "-", "-", "-", r.Err.Error()})
			continue
		}
		score := "-"
		if r.Result.Found() {
			score = fmt.Sprintf("%.4f", r.Score)
		}
		rows = append(rows, []string{
			r.Scenario.Name,
			string(r.Result.Status),
			score,
			fmt.Sprintf("%d", r.Result.Feasible),
			fmt.Sprintf("%d", r.Result.Iterations),
			fmt.Sprintf("%.2f%%", r.FeasibleRate*100),
			r.Result.Elapsed.Round(time.Millisecond).String(),
		})
	}
	return rows
}

// bestScenario returns the index of the highest scoring scenario with a
// solution, or -1 if none found one.
func bestScenario(results []engine.ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil || !r.Result.Found() {
			continue
		}
		if best < 0 || r.Score > results[best].Score {
			best = i
		}
	}
	return best
}
