package engine

import (
	"math"
	"math/rand"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// Generator produces candidate layouts. Next returns false once the
// generator has nothing left to offer.
type Generator interface {
	Next() (model.Layout, bool)
}

// NewGenerator returns the generator selected by settings.Strategy.
func NewGenerator(board model.Board, components []model.Component, settings model.Settings) Generator {
	if settings.Strategy == model.StrategySweep {
		return newSweepGenerator(board, components, settings)
	}
	return newRandomGenerator(board, components, settings, settings.Seed)
}

// gridSteps returns how many whole grid steps fit in span. A negative span
// (footprint larger than the board) yields zero so the single position at
// the origin is still produced and later rejected by the evaluator. The
// count is capped at model.MaxGridPositions.
func gridSteps(span, step float64) int {
	if span <= 0 {
		return 0
	}
	n := math.Floor(span/step + geometry.Epsilon)
	if math.IsNaN(n) {
		return 0
	}
	if n > model.MaxGridPositions {
		return model.MaxGridPositions
	}
	return int(n)
}

func snap(v, step float64) float64 {
	return math.Round(v/step) * step
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// onEdge places c flush against edge at offset along it.
func onEdge(board model.Board, c model.Component, edge model.Edge, rotated bool, offset float64) model.Placement {
	w, h := c.Dims(rotated)
	p := model.Placement{Component: c, Rotated: rotated}
	switch edge {
	case model.EdgeTop:
		p.X, p.Y = offset, 0
	case model.EdgeBottom:
		p.X, p.Y = offset, board.Height-h
	case model.EdgeLeft:
		p.X, p.Y = 0, offset
	case model.EdgeRight:
		p.X, p.Y = board.Width-w, offset
	}
	return p
}

// edgeSpan returns the free travel along edge for a footprint of w x h.
func edgeSpan(board model.Board, edge model.Edge, w, h float64) float64 {
	if edge.Vertical() {
		return board.Height - h
	}
	return board.Width - w
}

// randomGenerator samples layouts from a seeded random source. It never
// exhausts.
type randomGenerator struct {
	board      model.Board
	components model.ComponentSet
	settings   model.Settings
	rng        *rand.Rand
}

func newRandomGenerator(board model.Board, components []model.Component, settings model.Settings, seed int64) *randomGenerator {
	return &randomGenerator{
		board:      board,
		components: model.NewComponentSet(components),
		settings:   settings,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Next generates one layout. The order of random draws is fixed so the same
// seed always yields the same sequence.
func (g *randomGenerator) Next() (model.Layout, bool) {
	layout := make(model.Layout, len(model.ComponentIDs))

	layout[model.USB] = g.sampleEdge(g.components[model.USB])

	mb1, mb2 := g.components[model.MB1], g.components[model.MB2]
	if g.rng.Float64() < g.settings.OppositeBias {
		layout[model.MB1], layout[model.MB2] = g.sampleMirroredPair(mb1, mb2)
	} else {
		layout[model.MB1] = g.sampleEdge(mb1)
		layout[model.MB2] = g.sampleEdge(mb2)
	}

	mcu := g.sampleFree(g.components[model.MCU])
	layout[model.MCU] = mcu

	crystal := g.components[model.Crystal]
	if g.rng.Float64() < g.settings.CrystalBias {
		layout[model.Crystal] = g.sampleNear(crystal, mcu.Center(), g.settings.MaxCrystalDistance)
	} else {
		layout[model.Crystal] = g.sampleFree(crystal)
	}
	return layout, true
}

func (g *randomGenerator) rotation(c model.Component) bool {
	return c.Rotatable && g.rng.Intn(2) == 1
}

func (g *randomGenerator) along(span float64) float64 {
	n := gridSteps(span, g.settings.GridStep)
	return float64(g.rng.Intn(n+1)) * g.settings.GridStep
}

func (g *randomGenerator) sampleEdge(c model.Component) model.Placement {
	edge := model.Edges[g.rng.Intn(len(model.Edges))]
	rotated := g.rotation(c)
	w, h := c.Dims(rotated)
	return onEdge(g.board, c, edge, rotated, g.along(edgeSpan(g.board, edge, w, h)))
}

// sampleMirroredPair puts a on a random edge and b on the opposite edge at
// the same offset and orientation.
func (g *randomGenerator) sampleMirroredPair(a, b model.Component) (model.Placement, model.Placement) {
	edge := model.Edges[g.rng.Intn(len(model.Edges))]
	rotated := g.rotation(a)
	if !b.Rotatable {
		rotated = false
	}
	aw, ah := a.Dims(rotated)
	bw, bh := b.Dims(rotated)
	span := math.Min(edgeSpan(g.board, edge, aw, ah), edgeSpan(g.board, edge, bw, bh))
	offset := g.along(span)
	return onEdge(g.board, a, edge, rotated, offset),
		onEdge(g.board, b, edge.Opposite(), rotated, offset)
}

func (g *randomGenerator) sampleFree(c model.Component) model.Placement {
	rotated := g.rotation(c)
	w, h := c.Dims(rotated)
	return model.Placement{
		Component: c,
		X:         g.along(g.board.Width - w),
		Y:         g.along(g.board.Height - h),
		Rotated:   rotated,
	}
}

// sampleNear places c with its centre uniformly inside the disc of the
// given radius around center, snapped to the grid and kept on the board.
func (g *randomGenerator) sampleNear(c model.Component, center geometry.Point, radius float64) model.Placement {
	rotated := g.rotation(c)
	w, h := c.Dims(rotated)

	r := radius * math.Sqrt(g.rng.Float64())
	theta := 2 * math.Pi * g.rng.Float64()
	step := g.settings.GridStep

	x := snap(center.X+r*math.Cos(theta)-w/2, step)
	y := snap(center.Y+r*math.Sin(theta)-h/2, step)
	return model.Placement{
		Component: c,
		X:         clamp(x, 0, float64(gridSteps(g.board.Width-w, step))*step),
		Y:         clamp(y, 0, float64(gridSteps(g.board.Height-h, step))*step),
		Rotated:   rotated,
	}
}
