package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/BoardPlace/internal/engine"
	"github.com/piwi3910/BoardPlace/internal/model"
)

func centred(c model.Component, cx, cy float64) model.Placement {
	return model.Placement{Component: c, X: cx - c.Width/2, Y: cy - c.Height/2}
}

// buildTestReport returns a solved report for a hand-checked layout on the
// default board.
func buildTestReport() Report {
	board := model.DefaultBoard()
	components := model.DefaultComponents()
	settings := model.DefaultSettings()
	set := model.NewComponentSet(components)

	layout := model.Layout{
		model.USB:     centred(set[model.USB], 25, 2.5),
		model.MB1:     centred(set[model.MB1], 2.5, 25),
		model.MB2:     centred(set[model.MB2], 47.5, 25),
		model.MCU:     centred(set[model.MCU], 25, 31.5),
		model.Crystal: centred(set[model.Crystal], 25, 41.5),
	}
	eval := engine.NewEvaluator(board, settings)
	bd := eval.Score(layout)

	return Report{
		Board:      board,
		Components: components,
		Settings:   settings,
		Result: model.Result{
			RunID:  "abcd1234",
			Status: model.StatusSucceeded,
			Best: &model.Solution{
				RunID:       "abcd1234",
				Layout:      layout,
				Score:       bd.Score,
				Breakdown:   bd,
				Diagnostics: eval.Evaluate(layout, true).Diagnostics,
				Iteration:   7,
			},
			Iterations: 120,
			Feasible:   3,
			Elapsed:    1500 * time.Millisecond,
			Seed:       42,
			Strategy:   model.StrategyRandom,
		},
	}
}

func buildEmptyReport() Report {
	r := buildTestReport()
	r.Result.Best = nil
	r.Result.Status = model.StatusExhausted
	r.Result.Feasible = 0
	return r
}

func assertFileNotEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
}

// ─── Summary ───────────────────────────────────────────────

func TestWriteSummary_Solution(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, buildTestReport()); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Placement solution (run abcd1234)",
		"Board: 50 x 50",
		"CRYSTAL",
		"(25.00, 2.50)",
		"Crystal-MCU distance: 10.00 (max 10.00)",
		"Overlaps: none",
		"(25.00, 25.10), offset 0.10",
		"20.00,0.00 10x15 on top edge, crossed=false",
		"Found at iteration 7",
		"status=succeeded seed=42 strategy=random iterations=120 feasible=3 elapsed=1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "[FAIL]") {
		t.Errorf("feasible layout reported a failing rule:\n%s", out)
	}
	if got := strings.Count(out, "[PASS]"); got != len(engine.Rules) {
		t.Errorf("expected %d passing rules, got %d", len(engine.Rules), got)
	}
}

func TestWriteSummary_NoSolution(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, buildEmptyReport()); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "No solution found") {
		t.Errorf("expected no-solution header, got:\n%s", out)
	}
	if !strings.Contains(out, "status=exhausted") || !strings.Contains(out, "iterations=120") {
		t.Errorf("expected run counters, got:\n%s", out)
	}
}

func TestExportSummary_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placement_solution.txt")
	if err := ExportSummary(path, buildTestReport()); err != nil {
		t.Fatalf("ExportSummary returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

// ─── PDF ───────────────────────────────────────────────────

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placement_solution.pdf")

	if err := ExportPDF(path, buildTestReport()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
	// Two pages plus an embedded QR image
	if len(data) < 2000 {
		t.Errorf("PDF file seems too small: %d bytes", len(data))
	}
}

func TestExportPDF_NoSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	if err := ExportPDF(path, buildEmptyReport()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

func TestReportPayload(t *testing.T) {
	data, err := buildTestReport().Payload()
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}

	var payload PlacementPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.RunID != "abcd1234" {
		t.Errorf("expected run abcd1234, got %q", payload.RunID)
	}
	if len(payload.Places) != len(model.ComponentIDs) {
		t.Fatalf("expected %d placements, got %d", len(model.ComponentIDs), len(payload.Places))
	}
	usb := payload.Places[0]
	if usb.ID != model.USB || usb.X != 22.5 || usb.Y != 0 || usb.Width != 5 {
		t.Errorf("unexpected USB record %+v", usb)
	}

	if _, err := buildEmptyReport().Payload(); !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

// ─── PNG ───────────────────────────────────────────────────

func TestRenderPNG(t *testing.T) {
	opts := DefaultPNGOptions()
	var buf bytes.Buffer
	if err := RenderPNG(&buf, buildTestReport(), opts); err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	want := 50*opts.PixelsPerUnit + 2*opts.Padding
	if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
		t.Errorf("expected %dx%d image, got %dx%d", want, want, b.Dx(), b.Dy())
	}

	// Inside MB1, away from its outline and label
	x := opts.Padding + 1*opts.PixelsPerUnit
	y := opts.Padding + 20*opts.PixelsPerUnit
	r, g, b, _ := img.At(x, y).RGBA()
	mb := componentColors[model.MB1]
	if !near(r>>8, mb.R) || !near(g>>8, mb.G) || !near(b>>8, mb.B) {
		t.Errorf("expected MB1 colour at (%d,%d), got %d,%d,%d", x, y, r>>8, g>>8, b>>8)
	}
}

func near(got uint32, want uint8) bool {
	d := int(got) - int(want)
	return d >= -3 && d <= 3
}

func TestExportPNG_NoSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.png")
	err := ExportPNG(path, buildEmptyReport(), DefaultPNGOptions())
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be written without a solution")
	}
}

func TestExportPNG_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placement_solution.png")
	if err := ExportPNG(path, buildTestReport(), DefaultPNGOptions()); err != nil {
		t.Fatalf("ExportPNG returned error: %v", err)
	}
	assertFileNotEmpty(t, path)
}

// ─── XLSX ──────────────────────────────────────────────────

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placement_solution.xlsx")
	if err := ExportXLSX(path, buildTestReport()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetPlacement)
	if err != nil {
		t.Fatalf("failed to read %s: %v", sheetPlacement, err)
	}
	if len(rows) != 1+len(model.ComponentIDs) {
		t.Fatalf("expected %d rows, got %d", 1+len(model.ComponentIDs), len(rows))
	}
	if rows[1][0] != "USB" || rows[1][1] != "22.5" {
		t.Errorf("unexpected USB row %v", rows[1])
	}

	rows, err = f.GetRows(sheetConstraints)
	if err != nil {
		t.Fatalf("failed to read %s: %v", sheetConstraints, err)
	}
	if rows[1][0] != string(engine.RuleEdgeBound) || rows[1][2] != "TRUE" {
		t.Errorf("unexpected first rule row %v", rows[1])
	}
}

func TestExportXLSX_NoSolution(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "none.xlsx"), buildEmptyReport())
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}

// ─── DXF ───────────────────────────────────────────────────

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placement_solution.dxf")
	if err := ExportDXF(path, buildTestReport()); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	d, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen DXF: %v", err)
	}

	perLayer := map[string]int{}
	for _, ent := range d.Entities() {
		if ent.Layer() != nil {
			perLayer[ent.Layer().Name()]++
		}
	}
	want := map[string]int{
		LayerBoard:      1,
		LayerComponents: len(model.ComponentIDs),
		LayerKeepout:    2, // zone outline and crystal trace
		LayerLabels:     len(model.ComponentIDs),
	}
	for layer, n := range want {
		if perLayer[layer] != n {
			t.Errorf("layer %s: expected %d entities, got %d", layer, n, perLayer[layer])
		}
	}
}
