package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 50.0
	sidePanel    = qrSize + 10.0
)

// ExportPDF generates a PDF report. A solved report gets a plot page with
// the board, keep-out zone, crystal trace, centre of mass and a QR code of
// the placement, followed by a constraint page. Without a solution a single
// page with the run counters is written.
func ExportPDF(path string, report Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	sol, err := report.Solution()
	if err != nil {
		pdf.AddPage()
		renderNoSolutionPage(pdf, report)
		return pdf.OutputFileAndClose(path)
	}

	pdf.AddPage()
	if err := renderPlotPage(pdf, report, sol); err != nil {
		return err
	}

	pdf.AddPage()
	renderConstraintPage(pdf, report, sol)

	return pdf.OutputFileAndClose(path)
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }

// renderPlotPage draws the scaled board with every component on it.
func renderPlotPage(pdf *fpdf.Fpdf, report Report, sol *model.Solution) error {
	board := report.Board
	diag := report.Verdict().Diagnostics

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Placement %s (board %g x %g)", sol.RunID, board.Width, board.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Score: %.4f | Centrality: %.3f | Slack: %.3f | Found at iteration %d of %d",
		sol.Score, sol.Breakdown.Centrality, sol.Breakdown.Slack, sol.Iteration, report.Result.Iterations)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - sidePanel
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/board.Width, drawHeight/board.Height)
	canvasW := board.Width * scale
	canvasH := board.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	toPage := func(p geometry.Point) (float64, float64) {
		return offsetX + p.X*scale, offsetY + p.Y*scale
	}

	// Board background
	setFill(pdf, boardFill)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Keep-out zone
	k := diag.Keepout
	if k.Area() > 0 {
		kx, ky := toPage(geometry.Point{X: k.X, Y: k.Y})
		kw, kh := k.Width*scale, k.Height*scale
		setFill(pdf, keepoutFill)
		setDraw(pdf, keepoutLine)
		pdf.SetLineWidth(0.3)
		pdf.Rect(kx, ky, kw, kh, "FD")
		drawHatchPattern(pdf, kx, ky, kw, kh)
		if kw > 20 && kh > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(180, 0, 0)
			labelW := pdf.GetStringWidth("KEEP OUT")
			pdf.SetXY(kx+(kw-labelW)/2, ky+kh-6)
			pdf.CellFormat(labelW, 4, "KEEP OUT", "", 0, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}

	// Components
	for _, p := range sol.Layout.Ordered() {
		col := colorFor(p.Component.ID)
		px, py := toPage(geometry.Point{X: p.X, Y: p.Y})
		pw := p.PlacedWidth() * scale
		ph := p.PlacedHeight() * scale

		setFill(pdf, col)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 8 && ph > 5 {
			pdf.SetFont("Helvetica", "B", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := string(p.Component.ID)
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-1 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	// Crystal to MCU trace
	if mcu, ok := sol.Layout[model.MCU]; ok {
		if xtal, ok := sol.Layout[model.Crystal]; ok {
			x1, y1 := toPage(mcu.Center())
			x2, y2 := toPage(xtal.Center())
			setDraw(pdf, traceColor)
			pdf.SetLineWidth(0.8)
			pdf.Line(x1, y1, x2, y2)
		}
	}

	// Board centre and centre of mass
	cx, cy := toPage(board.Center())
	setDraw(pdf, centerMarker)
	pdf.SetLineWidth(0.3)
	pdf.Line(cx-2, cy, cx+2, cy)
	pdf.Line(cx, cy-2, cx, cy+2)
	mx, my := toPage(diag.CenterOfMass)
	setFill(pdf, comMarker)
	pdf.Circle(mx, my, 1.2, "F")
	pdf.SetDrawColor(0, 0, 0)

	drawDimensionAnnotations(pdf, board, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, sol, offsetY+canvasH+6)

	return drawPlacementQR(pdf, report, pageWidth-marginRight-qrSize, drawAreaTop)
}

// drawPlacementQR places a QR code carrying the placement JSON.
func drawPlacementQR(pdf *fpdf.Fpdf, report Report, x, y float64) error {
	payload, err := report.Payload()
	if err != nil {
		return err
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 512)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_placement"
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+qrSize+1)
	pdf.CellFormat(qrSize, 4, "Placement data (JSON)", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawHatchPattern draws diagonal lines inside a rectangle to indicate exclusion zones.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	setDraw(pdf, keepoutLine)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the board rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, board model.Board, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%g", board.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%g", board.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of placed components below the plot.
func drawLegend(pdf *fpdf.Fpdf, sol *model.Solution, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(22, 4, "Components:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 24
	maxX := pageWidth - marginRight - sidePanel

	for _, p := range sol.Layout.Ordered() {
		col := colorFor(p.Component.ID)
		label := fmt.Sprintf("%s @ (%.1f, %.1f) %gx%g", p.Component.ID, p.X, p.Y, p.PlacedWidth(), p.PlacedHeight())
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		setFill(pdf, col)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderConstraintPage draws the rule table, measured values and settings.
func renderConstraintPage(pdf *fpdf.Fpdf, report Report, sol *model.Solution) {
	verdict := report.Verdict()
	diag := verdict.Diagnostics
	s := report.Settings

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Constraint Report", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	colWidths := []float64{12, 80, 20, 155}
	headers := []string{"#", "Rule", "Result", "Measured"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range verdict.Results {
		result := "PASS"
		if !r.Passed {
			result = "FAIL"
		}
		rowData := []string{fmt.Sprintf("%d", i+1), r.Name, result, r.Detail}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			align := "L"
			if j == 0 || j == 2 {
				align = "C"
			}
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, align, true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Measured Values", "", 0, "L", false, 0, "")
	y += 9

	k := diag.Keepout
	items := []keyValue{
		{"Crystal-MCU distance", fmt.Sprintf("%.2f (max %.2f)", diag.CrystalDistance, s.MaxCrystalDistance)},
		{"Overlaps", overlapStatus(diag)},
		{"Centre of mass", fmt.Sprintf("(%.2f, %.2f) %s", diag.CenterOfMass.X, diag.CenterOfMass.Y, s.CenterOfMass)},
		{"Centre offset", fmt.Sprintf("%.2f (max %.2f)", diag.CenterOffset, s.MaxCenterOffset)},
		{"USB keep-out", fmt.Sprintf("%.1f,%.1f %gx%g on %s edge", k.X, k.Y, k.Width, k.Height, diag.KeepoutEdge)},
		{"Score", fmt.Sprintf("%.4f = %g x %.4f - %g x %.4f",
			sol.Score, s.CentralityWeight, sol.Breakdown.Centrality, s.WasteWeight, sol.Breakdown.Slack)},
	}
	y = drawKeyValues(pdf, items, y)

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Search Settings", "", 0, "L", false, 0, "")
	y += 9

	res := report.Result
	drawKeyValues(pdf, []keyValue{
		{"Strategy", string(res.Strategy)},
		{"Seed", fmt.Sprintf("%d", res.Seed)},
		{"Iterations", fmt.Sprintf("%d (%d feasible)", res.Iterations, res.Feasible)},
		{"Elapsed", res.Elapsed.String()},
		{"Grid step", fmt.Sprintf("%g", s.GridStep)},
	}, y)

	drawFooter(pdf)
}

type keyValue struct {
	label string
	value string
}

// drawKeyValues writes label/value rows starting at y and returns the next free y.
func drawKeyValues(pdf *fpdf.Fpdf, items []keyValue, y float64) float64 {
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(150, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		y += 6
	}
	return y
}

// renderNoSolutionPage reports an exhausted search.
func renderNoSolutionPage(pdf *fpdf.Fpdf, report Report) {
	res := report.Result

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "No solution found", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	drawKeyValues(pdf, []keyValue{
		{"Board", fmt.Sprintf("%g x %g", report.Board.Width, report.Board.Height)},
		{"Status", string(res.Status)},
		{"Strategy", string(res.Strategy)},
		{"Seed", fmt.Sprintf("%d", res.Seed)},
		{"Iterations", fmt.Sprintf("%d", res.Iterations)},
		{"Elapsed", res.Elapsed.String()},
	}, marginTop+18)

	drawFooter(pdf)
}

func drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoardPlace - PCB Placement Search", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 9
	case minDim > 10:
		return 7
	default:
		return 6
	}
}
