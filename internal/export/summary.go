package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// WriteSummary writes the plain text report: one line per component, the
// measured value behind every hard rule, the score breakdown and the run
// counters. Without a solution it writes "No solution found" and the
// counters only.
func WriteSummary(w io.Writer, report Report) error {
	var b strings.Builder
	res := report.Result

	sol, err := report.Solution()
	if err != nil {
		b.WriteString("No solution found\n")
		fmt.Fprintf(&b, "Board: %g x %g\n", report.Board.Width, report.Board.Height)
		writeRunLine(&b, res)
		_, err = io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Placement solution (run %s)\n", sol.RunID)
	fmt.Fprintf(&b, "Board: %g x %g\n\n", report.Board.Width, report.Board.Height)

	verdict := report.Verdict()
	diag := verdict.Diagnostics

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Component\tX\tY\tW\tH\tRot\tCentre\tEdges")
	for _, p := range sol.Layout.Ordered() {
		c := p.Center()
		edges := "-"
		if touched := report.Board.TouchedEdges(p.Rect()); len(touched) > 0 {
			names := make([]string, len(touched))
			for i, e := range touched {
				names[i] = string(e)
			}
			edges = strings.Join(names, ",")
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t(%.2f, %.2f)\t%s\n",
			p.Component.ID, p.X, p.Y, p.PlacedWidth(), p.PlacedHeight(), p.Rotation(), c.X, c.Y, edges)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to format component table: %w", err)
	}

	b.WriteString("\nConstraints:\n")
	for _, r := range verdict.Results {
		mark := "PASS"
		if !r.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", mark, r.Name, r.Detail)
	}

	b.WriteString("\nMeasured:\n")
	fmt.Fprintf(&b, "  Crystal-MCU distance: %.2f (max %.2f)\n",
		diag.CrystalDistance, report.Settings.MaxCrystalDistance)
	fmt.Fprintf(&b, "  Overlaps: %s\n", overlapStatus(diag))
	fmt.Fprintf(&b, "  MB edges: opposite=%t parallel=%t\n", diag.MBOpposite, diag.MBParallel)
	fmt.Fprintf(&b, "  Centre of mass (%s): (%.2f, %.2f), offset %.2f (max %.2f)\n",
		report.Settings.CenterOfMass, diag.CenterOfMass.X, diag.CenterOfMass.Y,
		diag.CenterOffset, report.Settings.MaxCenterOffset)
	k := diag.Keepout
	fmt.Fprintf(&b, "  USB keep-out: %.2f,%.2f %gx%g on %s edge, crossed=%t\n",
		k.X, k.Y, k.Width, k.Height, diag.KeepoutEdge, diag.KeepoutCrossed)

	bd := sol.Breakdown
	fmt.Fprintf(&b, "\nScore: %.4f (centrality %.4f x %g, slack %.4f x %g)\n",
		sol.Score, bd.Centrality, report.Settings.CentralityWeight, bd.Slack, report.Settings.WasteWeight)
	fmt.Fprintf(&b, "Found at iteration %d\n", sol.Iteration)
	writeRunLine(&b, res)

	_, err = io.WriteString(w, b.String())
	return err
}

func writeRunLine(b *strings.Builder, res model.Result) {
	fmt.Fprintf(b, "Run: status=%s seed=%d strategy=%s iterations=%d feasible=%d elapsed=%s\n",
		res.Status, res.Seed, res.Strategy, res.Iterations, res.Feasible, res.Elapsed.Round(time.Millisecond))
}

func overlapStatus(d model.Diagnostics) string {
	if len(d.Overlaps) == 0 {
		return "none"
	}
	pairs := make([]string, len(d.Overlaps))
	for i, p := range d.Overlaps {
		pairs[i] = fmt.Sprintf("%s/%s", p.A, p.B)
	}
	return strings.Join(pairs, ", ")
}

// ExportSummary writes the text summary to path.
func ExportSummary(path string, report Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	if err := WriteSummary(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return f.Close()
}
