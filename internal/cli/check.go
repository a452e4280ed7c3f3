package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/export"
	"github.com/piwi3910/BoardPlace/internal/project"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <solution.json>",
		Short: "Re-evaluate a saved solution against every hard rule",
		Long: `Load a solution file written by solve and evaluate its layout again with
full diagnostics. The command exits with status 2 when the file holds no
layout or the layout breaks a rule under its recorded settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
}

func runCheck(cmd *cobra.Command, path string) error {
	logger := loggerFromContext(cmd.Context())
	out := cmd.OutOrStdout()

	sf, err := project.LoadSolution(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded solution", "path", path, "version", sf.Version, "created", sf.CreatedAt)

	report := reportFromFile(sf)
	if err := export.WriteSummary(out, report); err != nil {
		return err
	}
	fmt.Fprintln(out)

	if _, err := report.Solution(); err != nil {
		printError(out, "%s holds no placement", path)
		return ErrExhausted
	}
	verdict := report.Verdict()
	if !verdict.Feasible() {
		printError(out, "%d rule(s) failed, first: %s", len(verdict.Failed()), verdict.FirstFailure)
		return fmt.Errorf("%w: %s", ErrViolation, verdict.FirstFailure)
	}
	printSuccess(out, "All %d rules pass", len(verdict.Results))
	return nil
}

func reportFromFile(sf project.SolutionFile) export.Report {
	return export.Report{
		Board:      sf.Board,
		Components: sf.Components,
		Settings:   sf.Settings,
		Result:     sf.Result,
	}
}
