// Package importer provides CSV, Excel and DXF import of component
// footprints. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Components []model.Component
	Errors     []string
	Warnings   []string
}

// OK reports whether the import produced footprints without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Components) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID        int
	Width     int
	Height    int
	Rule      int
	Rotatable int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":        {"id", "name", "component", "ref", "designator", "label", "part"},
	"width":     {"width", "w", "size x", "x"},
	"height":    {"height", "h", "size y", "y"},
	"rule":      {"rule", "placement", "placement rule", "constraint"},
	"rotatable": {"rotatable", "rotate", "can rotate", "rotation"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Width: -1, Height: -1, Rule: -1, Rotatable: -1}
	slots := map[string]*int{
		"id":        &mapping.ID,
		"width":     &mapping.Width,
		"height":    &mapping.Height,
		"rule":      &mapping.Rule,
		"rotatable": &mapping.Rotatable,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: ID, Width, Height, Rule, Rotatable
		return ColumnMapping{ID: 0, Width: 1, Height: 2, Rule: 3, Rotatable: 4}, false
	}

	return mapping, true
}

// parseRule converts a placement rule string. It returns the rule and
// whether the string was recognized; an empty string is not.
func parseRule(s string) (model.PlacementRule, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge", "edge-bound", "edgebound", "e":
		return model.RuleEdge, true
	case "free", "f", "any":
		return model.RuleFree, true
	default:
		return "", false
	}
}

// parseFlag accepts the usual spreadsheet spellings of a boolean.
func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1", "x":
		return true, true
	case "no", "n", "false", "f", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Component from a row using the given column mapping.
// Returns the component, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Component, string, []string) {
	id := model.ComponentID(strings.ToUpper(getCell(row, mapping.ID)))
	if id == "" {
		return model.Component{}, fmt.Sprintf("%s: Missing component id", rowLabel), nil
	}
	if !id.Valid() {
		return model.Component{}, fmt.Sprintf("%s: Unknown component '%s'", rowLabel, id), nil
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Component{}, fmt.Sprintf("%s: Missing width value", rowLabel), nil
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return model.Component{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Component{}, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return model.Component{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}

	if width <= 0 || height <= 0 {
		return model.Component{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), nil
	}

	stock := model.NewComponentSet(model.DefaultComponents())[id]
	comp := model.NewComponent(id, width, height, stock.Rule)

	// Optional rule and rotation
	var warnings []string
	if ruleStr := getCell(row, mapping.Rule); ruleStr != "" {
		if rule, ok := parseRule(ruleStr); ok {
			comp.Rule = rule
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown rule '%s', defaulting to %s", rowLabel, ruleStr, comp.Rule))
		}
	}
	if rotStr := getCell(row, mapping.Rotatable); rotStr != "" {
		if rot, ok := parseFlag(rotStr); ok {
			comp.Rotatable = rot
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown rotatable value '%s', defaulting to yes", rowLabel, rotStr))
		}
	}

	return comp, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports footprints from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports footprints from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports footprints from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportCSV(path)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into footprints.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		// Validate that required columns were found
		missing := []string{}
		if mapping.ID == -1 {
			missing = append(missing, "ID")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// No header: a non-numeric width means an unrecognized header row
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[model.ComponentID]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		comp, errMsg, warnings := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if first, dup := seen[comp.ID]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate component '%s' (first defined at %s)", rowLabel, comp.ID, first))
			continue
		}
		seen[comp.ID] = rowLabel
		result.Warnings = append(result.Warnings, warnings...)
		result.Components = append(result.Components, comp)
	}

	return result
}

// Merge replaces footprints in base with the imported ones of the same id.
// Components not mentioned in the import keep their base definition.
func Merge(base, imported []model.Component) []model.Component {
	byID := model.NewComponentSet(imported)
	out := make([]model.Component, len(base))
	for i, c := range base {
		if repl, ok := byID[c.ID]; ok {
			out[i] = repl
		} else {
			out[i] = c
		}
	}
	return out
}
