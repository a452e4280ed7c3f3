package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// Component colors, matching the exported plots.
var componentColors = map[model.ComponentID]color.NRGBA{
	model.USB:     {R: 33, G: 150, B: 243, A: 220}, // blue
	model.MB1:     {R: 121, G: 85, B: 72, A: 220},  // brown
	model.MB2:     {R: 121, G: 85, B: 72, A: 220},  // brown
	model.MCU:     {R: 76, G: 175, B: 80, A: 220},  // green
	model.Crystal: {R: 255, G: 152, B: 0, A: 220},  // orange
}

// BoardCanvas renders a placed layout on its board with the USB keep-out
// zone, the crystal trace and the centre of mass.
type BoardCanvas struct {
	widget.BaseWidget
	board     model.Board
	solution  *model.Solution
	maxWidth  float32
	maxHeight float32
}

func NewBoardCanvas(board model.Board, sol *model.Solution, maxW, maxH float32) *BoardCanvas {
	bc := &BoardCanvas{
		board:     board,
		solution:  sol,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

// SetSolution replaces the displayed solution.
func (bc *BoardCanvas) SetSolution(sol *model.Solution) {
	bc.solution = sol
	bc.Refresh()
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBoardCanvasRenderer(bc)
}

// scale returns the pixels per board unit that fit the board in the
// maximum size.
func (bc *BoardCanvas) scale() float32 {
	scaleX := bc.maxWidth / float32(bc.board.Width)
	scaleY := bc.maxHeight / float32(bc.board.Height)
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

type boardCanvasRenderer struct {
	bc      *BoardCanvas
	objects []fyne.CanvasObject
}

func newBoardCanvasRenderer(bc *BoardCanvas) *boardCanvasRenderer {
	r := &boardCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *boardCanvasRenderer) rebuild() {
	r.objects = nil

	scale := r.bc.scale()
	canvasW := float32(r.bc.board.Width) * scale
	canvasH := float32(r.bc.board.Height) * scale
	pos := func(p geometry.Point) fyne.Position {
		return fyne.NewPos(float32(p.X)*scale, float32(p.Y)*scale)
	}

	// Board background
	bg := canvas.NewRectangle(color.NRGBA{R: 34, G: 102, B: 51, A: 255}) // solder-mask green
	bg.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	sol := r.bc.solution
	if sol == nil {
		return
	}
	diag := sol.Diagnostics

	// Keep-out zone
	if k := diag.Keepout; k.Area() > 0 {
		zone := canvas.NewRectangle(color.NRGBA{R: 255, G: 50, B: 50, A: 110})
		zone.StrokeColor = color.NRGBA{R: 200, G: 0, B: 0, A: 255}
		zone.StrokeWidth = 2
		zone.Resize(fyne.NewSize(float32(k.Width)*scale, float32(k.Height)*scale))
		zone.Move(pos(geometry.Point{X: k.X, Y: k.Y}))
		r.objects = append(r.objects, zone)
	}

	// Components
	for _, p := range sol.Layout.Ordered() {
		col, ok := componentColors[p.Component.ID]
		if !ok {
			col = color.NRGBA{R: 158, G: 158, B: 158, A: 220}
		}
		pw := float32(p.PlacedWidth()) * scale
		ph := float32(p.PlacedHeight()) * scale

		rect := canvas.NewRectangle(col)
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(pw, ph))
		rect.Move(pos(geometry.Point{X: p.X, Y: p.Y}))
		r.objects = append(r.objects, rect)

		if pw > 24 && ph > 14 {
			label := canvas.NewText(string(p.Component.ID), color.Black)
			label.TextSize = 10
			label.TextStyle = fyne.TextStyle{Bold: true}
			label.Move(pos(geometry.Point{X: p.X, Y: p.Y}).Add(fyne.NewPos(3, 2)))
			r.objects = append(r.objects, label)
		}
	}

	// Crystal trace
	mcu, okM := sol.Layout[model.MCU]
	xtal, okC := sol.Layout[model.Crystal]
	if okM && okC {
		trace := canvas.NewLine(color.NRGBA{R: 255, G: 235, B: 59, A: 255})
		trace.StrokeWidth = 2
		trace.Position1 = pos(mcu.Center())
		trace.Position2 = pos(xtal.Center())
		r.objects = append(r.objects, trace)
	}

	// Centre of mass
	const dot = 6
	com := canvas.NewCircle(color.NRGBA{R: 244, G: 67, B: 54, A: 255})
	com.Resize(fyne.NewSize(dot, dot))
	com.Move(pos(diag.CenterOfMass).Subtract(fyne.NewPos(dot/2, dot/2)))
	r.objects = append(r.objects, com)
}

func (r *boardCanvasRenderer) Layout(size fyne.Size)        {}
func (r *boardCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size {
	scale := r.bc.scale()
	return fyne.NewSize(float32(r.bc.board.Width)*scale, float32(r.bc.board.Height)*scale)
}
