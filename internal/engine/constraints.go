package engine

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// RuleID names a hard constraint.
type RuleID string

const (
	RuleComplete        RuleID = "complete" // Every component placed exactly once
	RuleEdgeBound       RuleID = "edge-bound"
	RuleMBOpposite      RuleID = "mb-opposite"
	RuleCrystalDistance RuleID = "crystal-distance"
	RuleNoOverlap       RuleID = "no-overlap"
	RuleInBounds        RuleID = "in-bounds"
	RuleCenterOfMass    RuleID = "center-of-mass"
	RuleKeepout         RuleID = "keepout"
)

// Rule is a single hard constraint. Check records what it measured in d
// and returns whether the layout passes, with a human readable detail.
type Rule struct {
	ID    RuleID
	Name  string
	Check func(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string)
}

// Rules lists the hard constraints in evaluation order.
var Rules = []Rule{
	{ID: RuleEdgeBound, Name: "Edge-bound components touch an edge", Check: checkEdgeBound},
	{ID: RuleMBOpposite, Name: "MB1/MB2 on opposite edges", Check: checkMBOpposite},
	{ID: RuleCrystalDistance, Name: "Crystal near MCU", Check: checkCrystalDistance},
	{ID: RuleNoOverlap, Name: "No overlaps", Check: checkNoOverlap},
	{ID: RuleInBounds, Name: "Inside the board", Check: checkInBounds},
	{ID: RuleCenterOfMass, Name: "Centre of mass near board centre", Check: checkCenterOfMass},
	{ID: RuleKeepout, Name: "Crystal trace clear of USB keep-out", Check: checkKeepout},
}

// RuleResult is the outcome of one rule.
type RuleResult struct {
	Rule   RuleID `json:"rule"`
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Verdict is the structured outcome of evaluating a layout.
type Verdict struct {
	Results      []RuleResult      `json:"results"`
	FirstFailure RuleID            `json:"first_failure,omitempty"`
	Diagnostics  model.Diagnostics `json:"diagnostics"`
}

// Feasible reports whether every hard rule passed.
func (v Verdict) Feasible() bool {
	return v.FirstFailure == "" && len(v.Results) > 0
}

// Failed returns the IDs of every failing rule.
func (v Verdict) Failed() []RuleID {
	var ids []RuleID
	for _, r := range v.Results {
		if !r.Passed {
			ids = append(ids, r.Rule)
		}
	}
	return ids
}

// Evaluator checks layouts against the hard constraints and scores the
// feasible ones. It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	board    model.Board
	settings model.Settings
}

// NewEvaluator creates an Evaluator for the given board and settings.
func NewEvaluator(board model.Board, settings model.Settings) *Evaluator {
	return &Evaluator{board: board, settings: settings}
}

// Evaluate checks l against every hard rule in order. With full unset it
// stops at the first failing rule; with full set every rule runs so the
// verdict carries complete diagnostics.
func (e *Evaluator) Evaluate(l model.Layout, full bool) Verdict {
	var v Verdict
	v.Diagnostics.EdgeContacts = make(map[model.ComponentID][]model.Edge)

	if !l.Complete() {
		v.FirstFailure = RuleComplete
		v.Results = append(v.Results, RuleResult{
			Rule:   RuleComplete,
			Name:   "All components placed",
			Detail: describeMissing(l),
		})
		return v
	}

	for _, rule := range Rules {
		passed, detail := rule.Check(e, l, &v.Diagnostics)
		v.Results = append(v.Results, RuleResult{
			Rule:   rule.ID,
			Name:   rule.Name,
			Passed: passed,
			Detail: detail,
		})
		if !passed && v.FirstFailure == "" {
			v.FirstFailure = rule.ID
			if !full {
				break
			}
		}
	}
	return v
}

func describeMissing(l model.Layout) string {
	var missing []string
	for _, id := range model.ComponentIDs {
		p, ok := l[id]
		if !ok || p.Component.ID != id {
			missing = append(missing, string(id))
		}
	}
	if len(missing) == 0 {
		return "unexpected components in layout"
	}
	return "missing " + strings.Join(missing, ", ")
}

func checkEdgeBound(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	var loose []string
	for _, p := range l.Ordered() {
		edges := e.board.TouchedEdges(p.Rect())
		d.EdgeContacts[p.Component.ID] = edges
		if p.Component.Rule == model.RuleEdge && len(edges) == 0 {
			loose = append(loose, string(p.Component.ID))
		}
	}
	if len(loose) > 0 {
		return false, "not touching an edge: " + strings.Join(loose, ", ")
	}
	return true, "all edge-bound components touch an edge"
}

func checkMBOpposite(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	mb1, mb2 := l[model.MB1], l[model.MB2]
	edges1 := e.board.TouchedEdges(mb1.Rect())
	edges2 := e.board.TouchedEdges(mb2.Rect())

	d.MBParallel = parallel(mb1, mb2)
	d.MBOpposite = false
	pair := ""
	for _, a := range edges1 {
		for _, b := range edges2 {
			if b == a.Opposite() {
				d.MBOpposite = true
				pair = fmt.Sprintf("%s/%s", a, b)
			}
		}
		if d.MBOpposite {
			break
		}
	}

	switch {
	case !d.MBOpposite:
		return false, fmt.Sprintf("MB1 on %s, MB2 on %s: not opposite", edgeList(edges1), edgeList(edges2))
	case !d.MBParallel:
		return false, fmt.Sprintf("MB1 and MB2 on %s but not parallel", pair)
	}
	return true, fmt.Sprintf("MB1 and MB2 on %s, parallel", pair)
}

// parallel reports whether two placements share a long axis. A square
// footprint has no long axis and is parallel to anything.
func parallel(a, b model.Placement) bool {
	axis := func(p model.Placement) int {
		switch {
		case p.PlacedWidth() > p.PlacedHeight()+geometry.Epsilon:
			return 1
		case p.PlacedHeight() > p.PlacedWidth()+geometry.Epsilon:
			return 2
		}
		return 0
	}
	ax, bx := axis(a), axis(b)
	return ax == 0 || bx == 0 || ax == bx
}

func edgeList(edges []model.Edge) string {
	if len(edges) == 0 {
		return "no edge"
	}
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = string(e)
	}
	return strings.Join(parts, "+")
}

func checkCrystalDistance(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	d.CrystalDistance = l[model.Crystal].Center().Distance(l[model.MCU].Center())
	limit := e.settings.MaxCrystalDistance
	detail := fmt.Sprintf("distance %.2f (max %.2f)", d.CrystalDistance, limit)
	return d.CrystalDistance <= limit+geometry.Epsilon, detail
}

func checkNoOverlap(_ *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	placements := l.Ordered()
	d.Overlaps = nil
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if geometry.Overlaps(placements[i].Rect(), placements[j].Rect()) {
				d.Overlaps = append(d.Overlaps, model.OverlapPair{
					A: placements[i].Component.ID,
					B: placements[j].Component.ID,
				})
			}
		}
	}
	if len(d.Overlaps) == 0 {
		return true, "no overlaps"
	}
	pairs := make([]string, len(d.Overlaps))
	for i, o := range d.Overlaps {
		pairs[i] = fmt.Sprintf("%s/%s", o.A, o.B)
	}
	return false, "overlapping: " + strings.Join(pairs, ", ")
}

func checkInBounds(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	bounds := e.board.Bounds()
	d.OutOfBounds = nil
	for _, p := range l.Ordered() {
		if !geometry.Contains(bounds, p.Rect()) {
			d.OutOfBounds = append(d.OutOfBounds, p.Component.ID)
		}
	}
	if len(d.OutOfBounds) == 0 {
		return true, "all components inside the board"
	}
	ids := make([]string, len(d.OutOfBounds))
	for i, id := range d.OutOfBounds {
		ids[i] = string(id)
	}
	return false, "outside the board: " + strings.Join(ids, ", ")
}

func checkCenterOfMass(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	d.CenterOfMass = CenterOfMass(l, e.settings.CenterOfMass)
	d.CenterOffset = d.CenterOfMass.Distance(e.board.Center())
	limit := e.settings.MaxCenterOffset
	detail := fmt.Sprintf("centre of mass (%.2f, %.2f), offset %.2f (max %.2f)",
		d.CenterOfMass.X, d.CenterOfMass.Y, d.CenterOffset, limit)
	return d.CenterOffset <= limit+geometry.Epsilon, detail
}

func checkKeepout(e *Evaluator, l model.Layout, d *model.Diagnostics) (bool, string) {
	d.Keepout, d.KeepoutEdge = Keepout(e.board, l[model.USB], e.settings.KeepoutWidth, e.settings.KeepoutDepth)
	d.KeepoutCrossed = false
	if d.Keepout.Area() > geometry.Epsilon {
		d.KeepoutCrossed = geometry.SegmentIntersectsRect(
			l[model.Crystal].Center(), l[model.MCU].Center(), d.Keepout)
	}
	if d.KeepoutCrossed {
		return false, fmt.Sprintf("crystal-MCU trace crosses the keep-out on the %s edge", d.KeepoutEdge)
	}
	return true, fmt.Sprintf("trace clear of the keep-out on the %s edge", d.KeepoutEdge)
}

// Keepout returns the USB keep-out zone and the edge it is anchored to.
// The zone is centred on the USB connector along the first edge it touches
// (top, bottom, left, right), extends depth units into the board and is
// clipped to the board. A connector touching no edge anchors to the top.
func Keepout(board model.Board, usb model.Placement, width, depth float64) (geometry.Rect, model.Edge) {
	edge := model.EdgeTop
	if edges := board.TouchedEdges(usb.Rect()); len(edges) > 0 {
		edge = edges[0]
	}
	c := usb.Center()

	var zone geometry.Rect
	switch edge {
	case model.EdgeTop:
		zone = geometry.NewRect(c.X-width/2, 0, width, depth)
	case model.EdgeBottom:
		zone = geometry.NewRect(c.X-width/2, board.Height-depth, width, depth)
	case model.EdgeLeft:
		zone = geometry.NewRect(0, c.Y-width/2, depth, width)
	case model.EdgeRight:
		zone = geometry.NewRect(board.Width-depth, c.Y-width/2, depth, width)
	}
	return zone.Clip(board.Bounds()), edge
}

// CenterOfMass returns the mean of the component centres, weighted by
// footprint area when mode is CenterOfMassArea.
func CenterOfMass(l model.Layout, mode model.CenterOfMassMode) geometry.Point {
	placements := l.Ordered()
	if len(placements) == 0 {
		return geometry.Point{}
	}
	xs := make([]float64, len(placements))
	ys := make([]float64, len(placements))
	var weights []float64
	if mode == model.CenterOfMassArea {
		weights = make([]float64, len(placements))
	}
	for i, p := range placements {
		c := p.Center()
		xs[i], ys[i] = c.X, c.Y
		if weights != nil {
			weights[i] = p.Component.Area()
		}
	}
	return geometry.Point{X: stat.Mean(xs, weights), Y: stat.Mean(ys, weights)}
}

// Score computes the soft score of a layout. Only feasible layouts should
// be scored; higher is better.
func (e *Evaluator) Score(l model.Layout) model.ScoreBreakdown {
	placements := l.Ordered()
	if len(placements) == 0 {
		return model.ScoreBreakdown{}
	}

	bbox := placements[0].Rect()
	areas := make([]float64, len(placements))
	for i, p := range placements {
		bbox = bbox.Union(p.Rect())
		areas[i] = p.Component.Area()
	}
	slack := (bbox.Area() - floats.Sum(areas)) / e.board.Area()
	slack = math.Max(0, math.Min(1, slack))

	halfDiagonal := math.Hypot(e.board.Width, e.board.Height) / 2
	offset := CenterOfMass(l, e.settings.CenterOfMass).Distance(e.board.Center())
	centrality := math.Max(0, 1-offset/halfDiagonal)

	return model.ScoreBreakdown{
		Slack:      slack,
		Centrality: centrality,
		Score:      e.settings.CentralityWeight*centrality - e.settings.WasteWeight*slack,
	}
}
