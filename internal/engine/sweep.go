package engine

import (
	"math"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

type mbPair struct {
	mb1, mb2 model.Placement
}

// sweepGenerator enumerates layouts deterministically: every mirrored
// MB1/MB2 pair, every USB position along the edges, the MCU at the board
// centre and every grid offset of the crystal within reach of the MCU.
type sweepGenerator struct {
	board   model.Board
	pairs   []mbPair
	usb     []model.Placement
	mcu     model.Placement
	crystal model.Component
	offsets []geometry.Point
	step    float64

	pair, port, offset int
}

func newSweepGenerator(board model.Board, components []model.Component, settings model.Settings) *sweepGenerator {
	set := model.NewComponentSet(components)
	step := settings.GridStep

	mcu := set[model.MCU]
	g := &sweepGenerator{
		board:   board,
		pairs:   mirroredPairs(board, set[model.MB1], set[model.MB2], step),
		usb:     edgePositions(board, set[model.USB], step),
		crystal: set[model.Crystal],
		offsets: discOffsets(settings.MaxCrystalDistance, step),
		step:    step,
		mcu: model.Placement{
			Component: mcu,
			X:         snap((board.Width-mcu.Width)/2, step),
			Y:         snap((board.Height-mcu.Height)/2, step),
		},
	}
	return g
}

// longAxis returns the rotation that lays c's long side vertically or
// horizontally.
func longAxis(c model.Component, vertical bool) bool {
	if !c.Rotatable {
		return false
	}
	if vertical {
		return c.Width > c.Height
	}
	return c.Height > c.Width
}

// mirroredPairs lists MB1/MB2 on left/right at every grid Y, then on
// top/bottom at every grid X.
func mirroredPairs(board model.Board, mb1, mb2 model.Component, step float64) []mbPair {
	var pairs []mbPair
	for _, edge := range []model.Edge{model.EdgeLeft, model.EdgeTop} {
		r1 := longAxis(mb1, edge.Vertical())
		r2 := longAxis(mb2, edge.Vertical())
		w1, h1 := mb1.Dims(r1)
		w2, h2 := mb2.Dims(r2)
		span := math.Min(edgeSpan(board, edge, w1, h1), edgeSpan(board, edge, w2, h2))
		for i := 0; i <= gridSteps(span, step); i++ {
			offset := float64(i) * step
			pairs = append(pairs, mbPair{
				mb1: onEdge(board, mb1, edge, r1, offset),
				mb2: onEdge(board, mb2, edge.Opposite(), r2, offset),
			})
		}
	}
	return pairs
}

// edgePositions lists c at every grid position on the top and bottom edges,
// then the left and right edges, turned to lie along the edge.
func edgePositions(board model.Board, c model.Component, step float64) []model.Placement {
	var out []model.Placement
	for _, edges := range [][2]model.Edge{{model.EdgeTop, model.EdgeBottom}, {model.EdgeLeft, model.EdgeRight}} {
		rotated := edges[0].Vertical() && c.Rotatable
		w, h := c.Dims(rotated)
		n := gridSteps(edgeSpan(board, edges[0], w, h), step)
		for i := 0; i <= n; i++ {
			offset := float64(i) * step
			out = append(out,
				onEdge(board, c, edges[0], rotated, offset),
				onEdge(board, c, edges[1], rotated, offset))
		}
	}
	return out
}

// discOffsets lists every grid offset within radius of the origin, row by
// row.
func discOffsets(radius, step float64) []geometry.Point {
	n := int(math.Floor(radius/step + geometry.Epsilon))
	var out []geometry.Point
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			dx, dy := float64(i)*step, float64(j)*step
			if math.Hypot(dx, dy) <= radius+geometry.Epsilon {
				out = append(out, geometry.Point{X: dx, Y: dy})
			}
		}
	}
	return out
}

// Next returns the next combination, crystal offsets varying fastest.
func (g *sweepGenerator) Next() (model.Layout, bool) {
	if len(g.usb) == 0 || len(g.offsets) == 0 || g.pair >= len(g.pairs) {
		return nil, false
	}

	pair := g.pairs[g.pair]
	center := g.mcu.Center()
	d := g.offsets[g.offset]
	crystal := model.Placement{
		Component: g.crystal,
		X:         snap(center.X+d.X-g.crystal.Width/2, g.step),
		Y:         snap(center.Y+d.Y-g.crystal.Height/2, g.step),
	}
	layout := model.Layout{
		model.USB:     g.usb[g.port],
		model.MB1:     pair.mb1,
		model.MB2:     pair.mb2,
		model.MCU:     g.mcu,
		model.Crystal: crystal,
	}

	g.offset++
	if g.offset == len(g.offsets) {
		g.offset = 0
		g.port++
		if g.port == len(g.usb) {
			g.port = 0
			g.pair++
		}
	}
	return layout, true
}

// shard keeps every n-th MB pair starting at index i so n sweeps can split
// the enumeration between them.
func (g *sweepGenerator) shard(i, n int) {
	if n <= 1 {
		return
	}
	var kept []mbPair
	for j := i; j < len(g.pairs); j += n {
		kept = append(kept, g.pairs[j])
	}
	g.pairs = kept
}

// Size returns the total number of layouts the sweep will produce.
func (g *sweepGenerator) Size() int {
	return len(g.pairs) * len(g.usb) * len(g.offsets)
}
