package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/engine"
	"github.com/piwi3910/BoardPlace/internal/export"
	"github.com/piwi3910/BoardPlace/internal/project"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	inputOpts
	outputDir string   // directory for placement_solution.* files
	formats   []string // output formats
}

func newSolveCmd() *cobra.Command {
	var opts solveOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search for a placement and write the result files",
		Long: `Search for a placement of the five components that satisfies every hard rule.

The best layout found within the budget is written as placement_solution.*
in the output directory, one file per requested format. The command exits
with status 2 when the budget runs out before any layout is feasible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("formats") {
				opts.formats = parseFormats(formatsStr)
				if err := validateFormats(opts.formats); err != nil {
					return err
				}
			}
			return runSolve(cmd, opts)
		},
	}

	addInputFlags(cmd, &opts.inputOpts)
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the result files (default from app config)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output formats: summary, pdf, png, xlsx, dxf, json (comma-separated)")

	return cmd
}

func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no output format given (valid: %s)", strings.Join(validFormats, ", "))
	}
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("invalid format: %s (valid: %s)", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

func runSolve(cmd *cobra.Command, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	in, err := loadInputs(cmd, opts.inputOpts, logger)
	if err != nil {
		return err
	}
	if opts.outputDir == "" {
		opts.outputDir = in.appConfig.DefaultOutputDir
	}
	if opts.outputDir == "" {
		opts.outputDir = "."
	}
	if len(opts.formats) == 0 {
		opts.formats = in.appConfig.DefaultFormats
		if err := validateFormats(opts.formats); err != nil {
			return fmt.Errorf("app config default formats: %w", err)
		}
	}

	logger.Info("searching",
		"strategy", in.settings.Strategy,
		"seed", in.settings.Seed,
		"budget", in.settings.TimeBudget,
		"workers", max(in.settings.Workers, 1))
	prog := newProgress(logger)

	result, err := engine.Solve(ctx, in.board, in.components, in.settings, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("search interrupted", "iterations", result.Iterations, "feasible", result.Feasible)
		}
		return err
	}
	prog.done(fmt.Sprintf("Evaluated %d candidates, %d feasible", result.Iterations, result.Feasible))

	report := export.Report{
		Board:      in.board,
		Components: in.components,
		Settings:   in.settings,
		Result:     result,
	}
	sf := project.NewSolutionFile(in.board, in.components, in.settings, result)

	fmt.Fprintln(out)
	if err := export.WriteSummary(out, report); err != nil {
		return err
	}
	fmt.Fprintln(out)

	written, err := writeOutputs(out, opts.outputDir, opts.formats, report, sf)
	if err != nil {
		return err
	}

	if result.Found() {
		printSuccess(out, "Placement found with score %.4f", result.Best.Score)
	} else {
		printError(out, "No placement satisfies every constraint (%d candidates)", result.Iterations)
	}
	for _, path := range written {
		printFile(out, path)
	}
	if !result.Found() {
		return ErrExhausted
	}
	return nil
}

// writeOutputs writes one placement_solution file per format into dir and
// returns the written paths. Formats that need a solution are skipped with
// a warning when the search found none.
func writeOutputs(out io.Writer, dir string, formats []string, report export.Report, sf project.SolutionFile) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		path := filepath.Join(dir, solutionBase+formatExt[format])

		var err error
		switch format {
		case formatSummary:
			err = export.ExportSummary(path, report)
		case formatPDF:
			err = export.ExportPDF(path, report)
		case formatPNG:
			err = export.ExportPNG(path, report, export.DefaultPNGOptions())
		case formatXLSX:
			err = export.ExportXLSX(path, report)
		case formatDXF:
			err = export.ExportDXF(path, report)
		case formatJSON:
			err = project.SaveSolution(path, sf)
		}

		if errors.Is(err, export.ErrNoSolution) {
			printWarning(out, "Skipped %s: no solution to draw", format)
			continue
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}
