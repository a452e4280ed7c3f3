package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	PixelsPerUnit int // Board units to output pixels
	Padding       int // Pixels around the board
	FontSize      float64
	Supersample   int // Render at this multiple and scale down
	ShowLabels    bool
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		PixelsPerUnit: 12,
		Padding:       24,
		FontSize:      12,
		Supersample:   4,
		ShowLabels:    true,
	}
}

func (c rgb) rgba() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

var (
	pngBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pngOutline    = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	pngKeepout    = color.RGBA{R: 255, G: 200, B: 200, A: 160}
)

// plotContext maps board units to pixels on a (supersampled) canvas.
type plotContext struct {
	img    *image.RGBA
	scale  float64 // Pixels per board unit
	pad    float64
	stroke float64
	face   font.Face
}

func (ctx *plotContext) px(p geometry.Point) (float64, float64) {
	return ctx.pad + p.X*ctx.scale, ctx.pad + p.Y*ctx.scale
}

func (ctx *plotContext) rect(r geometry.Rect) image.Rectangle {
	x0, y0 := ctx.px(geometry.Point{X: r.X, Y: r.Y})
	x1, y1 := ctx.px(geometry.Point{X: r.Right(), Y: r.Bottom()})
	return image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
}

// RenderPNG writes a raster plot of the report's solution: board, keep-out
// zone, components, crystal trace and centre of mass.
func RenderPNG(w io.Writer, report Report, opts PNGOptions) error {
	sol, err := report.Solution()
	if err != nil {
		return err
	}
	if opts.PixelsPerUnit <= 0 || opts.Supersample <= 0 {
		return fmt.Errorf("invalid PNG options: %+v", opts)
	}

	ss := opts.Supersample
	width := int(math.Ceil(report.Board.Width*float64(opts.PixelsPerUnit))) + 2*opts.Padding
	height := int(math.Ceil(report.Board.Height*float64(opts.PixelsPerUnit))) + 2*opts.Padding

	face, err := newPlotFace(opts.FontSize * float64(ss))
	if err != nil {
		return err
	}
	defer face.Close()

	large := image.NewRGBA(image.Rect(0, 0, width*ss, height*ss))
	ctx := &plotContext{
		img:    large,
		scale:  float64(opts.PixelsPerUnit * ss),
		pad:    float64(opts.Padding * ss),
		stroke: float64(ss),
		face:   face,
	}
	renderPlot(ctx, report, sol, opts.ShowLabels)

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	return png.Encode(w, final)
}

// ExportPNG writes the plot to path.
func ExportPNG(path string, report Report, opts PNGOptions) error {
	if _, err := report.Solution(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %w", err)
	}
	if err := RenderPNG(f, report, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to render PNG: %w", err)
	}
	return f.Close()
}

func newPlotFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func renderPlot(ctx *plotContext, report Report, sol *model.Solution, labels bool) {
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(pngBackground), image.Point{}, draw.Src)

	board := ctx.rect(report.Board.Bounds())
	draw.Draw(ctx.img, board, image.NewUniform(boardFill.rgba()), image.Point{}, draw.Src)
	strokeRect(ctx, board, pngOutline)

	diag := report.Verdict().Diagnostics
	if diag.Keepout.Area() > 0 {
		k := ctx.rect(diag.Keepout)
		draw.Draw(ctx.img, k, image.NewUniform(pngKeepout), image.Point{}, draw.Over)
		strokeRect(ctx, k, keepoutLine.rgba())
	}

	for _, p := range sol.Layout.Ordered() {
		r := ctx.rect(p.Rect())
		draw.Draw(ctx.img, r, image.NewUniform(colorFor(p.Component.ID).rgba()), image.Point{}, draw.Src)
		strokeRect(ctx, r, pngOutline)
		if labels {
			c := p.Center()
			x, y := ctx.px(c)
			drawTextCentered(ctx, int(x), int(y), string(p.Component.ID), pngOutline)
		}
	}

	mcu, okM := sol.Layout[model.MCU]
	xtal, okC := sol.Layout[model.Crystal]
	if okM && okC {
		x1, y1 := ctx.px(mcu.Center())
		x2, y2 := ctx.px(xtal.Center())
		drawLine(ctx, x1, y1, x2, y2, 2*ctx.stroke, traceColor.rgba())
	}

	cx, cy := ctx.px(report.Board.Center())
	arm := 0.8 * ctx.scale
	drawLine(ctx, cx-arm, cy, cx+arm, cy, ctx.stroke, centerMarker.rgba())
	drawLine(ctx, cx, cy-arm, cx, cy+arm, ctx.stroke, centerMarker.rgba())

	mx, my := ctx.px(diag.CenterOfMass)
	fillCircle(ctx, mx, my, 0.4*ctx.scale, comMarker.rgba())
}

// strokeRect draws the outline of r with the context stroke width.
func strokeRect(ctx *plotContext, r image.Rectangle, c color.Color) {
	t := int(math.Max(1, ctx.stroke))
	src := image.NewUniform(c)
	draw.Draw(ctx.img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(ctx.img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(ctx.img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(ctx.img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// drawLine stamps squares of the given width along the segment.
func drawLine(ctx *plotContext, x1, y1, x2, y2, width float64, c color.Color) {
	dist := math.Hypot(x2-x1, y2-y1)
	steps := int(math.Max(1, math.Ceil(dist)))
	half := width / 2
	src := image.NewUniform(c)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x1 + (x2-x1)*t
		y := y1 + (y2-y1)*t
		r := image.Rect(int(x-half), int(y-half), int(math.Ceil(x+half)), int(math.Ceil(y+half)))
		draw.Draw(ctx.img, r, src, image.Point{}, draw.Src)
	}
}

func fillCircle(ctx *plotContext, cx, cy, radius float64, c color.RGBA) {
	r2 := radius * radius
	for y := int(cy - radius); y <= int(math.Ceil(cy+radius)); y++ {
		for x := int(cx - radius); x <= int(math.Ceil(cx+radius)); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r2 {
				ctx.img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawTextCentered draws text centred on (x, y).
func drawTextCentered(ctx *plotContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	ascent := ctx.face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(y + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}
