package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// DXF layer names.
const (
	LayerBoard      = "BOARD"
	LayerComponents = "COMPONENTS"
	LayerKeepout    = "KEEPOUT"
	LayerLabels     = "LABELS"
)

// ExportDXF writes the solution as a DXF drawing: the board outline, one
// closed polyline per component, the USB keep-out zone with the crystal
// trace, and a text label per component. DXF is Y-up, so board Y
// coordinates are flipped.
func ExportDXF(path string, report Report) error {
	sol, err := report.Solution()
	if err != nil {
		return err
	}

	d := dxf.NewDrawing()
	h := report.Board.Height
	flip := func(p geometry.Point) (float64, float64) { return p.X, h - p.Y }

	if err := addLayer(d, LayerBoard, color.White); err != nil {
		return err
	}
	if err := outline(d, report.Board.Bounds(), h); err != nil {
		return err
	}

	if err := addLayer(d, LayerComponents, color.Cyan); err != nil {
		return err
	}
	for _, p := range sol.Layout.Ordered() {
		if err := outline(d, p.Rect(), h); err != nil {
			return fmt.Errorf("failed to draw %s: %w", p.Component.ID, err)
		}
	}

	diag := report.Verdict().Diagnostics
	if err := addLayer(d, LayerKeepout, color.Red); err != nil {
		return err
	}
	if diag.Keepout.Area() > 0 {
		if err := outline(d, diag.Keepout, h); err != nil {
			return fmt.Errorf("failed to draw keep-out: %w", err)
		}
	}
	mcu, okM := sol.Layout[model.MCU]
	xtal, okC := sol.Layout[model.Crystal]
	if okM && okC {
		x1, y1 := flip(mcu.Center())
		x2, y2 := flip(xtal.Center())
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			return fmt.Errorf("failed to draw crystal trace: %w", err)
		}
	}

	if err := addLayer(d, LayerLabels, color.Yellow); err != nil {
		return err
	}
	for _, p := range sol.Layout.Ordered() {
		x, y := flip(p.Center())
		height := 0.2 * min(p.PlacedWidth(), p.PlacedHeight())
		if _, err := d.Text(string(p.Component.ID), x, y, 0, height); err != nil {
			return fmt.Errorf("failed to label %s: %w", p.Component.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func addLayer(d *drawing.Drawing, name string, c color.ColorNumber) error {
	if _, err := d.AddLayer(name, c, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", name, err)
	}
	return nil
}

// outline draws r as a closed LWPOLYLINE on the current layer.
func outline(d *drawing.Drawing, r geometry.Rect, boardHeight float64) error {
	top := boardHeight - r.Y
	bottom := boardHeight - r.Bottom()
	_, err := d.LwPolyline(true,
		[]float64{r.X, bottom},
		[]float64{r.Right(), bottom},
		[]float64{r.Right(), top},
		[]float64{r.X, top},
	)
	return err
}
