package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetPlacement   = "Placement"
	sheetConstraints = "Constraints"
)

// ExportXLSX writes a workbook with a Placement sheet (one row per
// component) and a Constraints sheet (one row per rule plus the score and
// run counters).
func ExportXLSX(path string, report Report) error {
	sol, err := report.Solution()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetPlacement); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetConstraints); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]interface{}{
		{"Component", "X", "Y", "Width", "Height", "Rotation", "Centre X", "Centre Y", "Rule"},
	}
	for _, p := range sol.Layout.Ordered() {
		c := p.Center()
		rows = append(rows, []interface{}{
			string(p.Component.ID), p.X, p.Y, p.PlacedWidth(), p.PlacedHeight(),
			p.Rotation(), c.X, c.Y, string(p.Component.Rule),
		})
	}
	if err := writeRows(f, sheetPlacement, rows, header); err != nil {
		return err
	}

	verdict := report.Verdict()
	diag := verdict.Diagnostics
	rows = [][]interface{}{{"Rule", "Name", "Passed", "Measured"}}
	for _, r := range verdict.Results {
		rows = append(rows, []interface{}{string(r.Rule), r.Name, r.Passed, r.Detail})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"crystal_distance", "Crystal-MCU distance", nil, diag.CrystalDistance},
		[]interface{}{"center_offset", "Centre of mass offset", nil, diag.CenterOffset},
		[]interface{}{"score", "Score", nil, sol.Score},
		[]interface{}{"centrality", "Centrality", nil, sol.Breakdown.Centrality},
		[]interface{}{"slack", "Slack", nil, sol.Breakdown.Slack},
		[]interface{}{"run_id", "Run", nil, sol.RunID},
		[]interface{}{"seed", "Seed", nil, report.Result.Seed},
		[]interface{}{"iterations", "Iterations", nil, report.Result.Iterations},
	)
	if err := writeRows(f, sheetConstraints, rows, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows fills sheet from A1 and styles the first row.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	return nil
}
