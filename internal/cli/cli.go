// Package cli implements the boardplace command-line interface.
//
// The CLI is built with cobra. Every command carries a charmbracelet/log
// logger on its context; --verbose (-v) lowers the level to debug so the
// search reports its progress.
//
// # Commands
//
//   - solve: search for a placement and write the result files
//   - check: re-evaluate a saved solution against every hard rule
//   - compare: run what-if scenarios side by side
//   - config init: write a default TOML run configuration
//   - view: open a saved solution in the desktop viewer
//
// # Exit codes
//
// ExitCode maps a command error to the process status: 0 on success,
// 2 when no placement satisfies the constraints, 130 on interrupt and 1
// for everything else.
package cli

import (
	"context"
	"errors"
	"strings"
)

const (
	// appName is the binary name used in help text and version output.
	appName = "boardplace"

	// solutionBase is the file name stem of every written result.
	solutionBase = "placement_solution"
)

// Process exit statuses.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitNoLayout  = 2
	ExitInterrupt = 130
)

var (
	// ErrExhausted is returned by solve when the budget ran out before any
	// candidate passed every hard rule.
	ErrExhausted = errors.New("search exhausted without a feasible placement")

	// ErrViolation is returned by check when a saved layout breaks a rule.
	ErrViolation = errors.New("placement violates a hard constraint")
)

// ExitCode returns the process exit status for an error returned by a
// command.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.Is(err, ErrExhausted), errors.Is(err, ErrViolation):
		return ExitNoLayout
	default:
		return ExitError
	}
}

// Output formats accepted by --formats.
const (
	formatSummary = "summary"
	formatPDF     = "pdf"
	formatPNG     = "png"
	formatXLSX    = "xlsx"
	formatDXF     = "dxf"
	formatJSON    = "json"
)

var validFormats = []string{formatSummary, formatPDF, formatPNG, formatXLSX, formatDXF, formatJSON}

// formatExt maps a format to the extension of the file it writes.
var formatExt = map[string]string{
	formatSummary: ".txt",
	formatPDF:     ".pdf",
	formatPNG:     ".png",
	formatXLSX:    ".xlsx",
	formatDXF:     ".dxf",
	formatJSON:    ".json",
}

// parseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func parseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
