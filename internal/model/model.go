package model

import (
	"github.com/piwi3910/BoardPlace/internal/geometry"
)

// ComponentID identifies one of the fixed set of components placed on the board.
type ComponentID string

const (
	USB     ComponentID = "USB"
	MCU     ComponentID = "MCU"
	Crystal ComponentID = "CRYSTAL"
	MB1     ComponentID = "MB1"
	MB2     ComponentID = "MB2"
)

// ComponentIDs lists every component in canonical order. Reports, exports
// and centre-of-mass sums iterate in this order.
var ComponentIDs = []ComponentID{USB, MB1, MB2, MCU, Crystal}

// Valid reports whether id is one of the known components.
func (id ComponentID) Valid() bool {
	for _, known := range ComponentIDs {
		if id == known {
			return true
		}
	}
	return false
}

// PlacementRule says where a component is allowed to go.
type PlacementRule string

const (
	RuleEdge PlacementRule = "edge" // Must touch a board edge
	RuleFree PlacementRule = "free" // Anywhere inside the board
)

func (r PlacementRule) String() string {
	switch r {
	case RuleEdge:
		return "Edge-bound"
	case RuleFree:
		return "Free"
	default:
		return "Unknown"
	}
}

// Edge identifies a side of the board.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Edges lists the board edges in the priority order used to anchor the
// USB keep-out zone when a component touches more than one edge.
var Edges = []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}

// Opposite returns the edge across the board from e.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeTop:
		return EdgeBottom
	case EdgeBottom:
		return EdgeTop
	case EdgeLeft:
		return EdgeRight
	default:
		return EdgeLeft
	}
}

// Vertical reports whether e is the left or right edge.
func (e Edge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Component is a fixed-size rectangular part with a placement rule.
type Component struct {
	ID        ComponentID   `json:"id" toml:"id"`
	Width     float64       `json:"width" toml:"width"`   // units, unrotated
	Height    float64       `json:"height" toml:"height"` // units, unrotated
	Rule      PlacementRule `json:"rule" toml:"rule"`
	Rotatable bool          `json:"rotatable" toml:"rotatable"` // May be placed turned 90°
}

func NewComponent(id ComponentID, w, h float64, rule PlacementRule) Component {
	return Component{
		ID:        id,
		Width:     w,
		Height:    h,
		Rule:      rule,
		Rotatable: true,
	}
}

// Area returns the footprint area.
func (c Component) Area() float64 {
	return c.Width * c.Height
}

// Dims returns the placed width and height for the given rotation.
func (c Component) Dims(rotated bool) (float64, float64) {
	if rotated {
		return c.Height, c.Width
	}
	return c.Width, c.Height
}

// DefaultComponents returns the stock component set: a small USB connector,
// MCU and crystal, plus two long mounting blocks.
func DefaultComponents() []Component {
	return []Component{
		NewComponent(USB, 5, 5, RuleEdge),
		NewComponent(MB1, 5, 15, RuleEdge),
		NewComponent(MB2, 5, 15, RuleEdge),
		NewComponent(MCU, 5, 5, RuleFree),
		NewComponent(Crystal, 5, 5, RuleFree),
	}
}

// ComponentSet indexes components by ID.
type ComponentSet map[ComponentID]Component

// NewComponentSet builds a ComponentSet. Later duplicates overwrite earlier
// ones; Validate rejects duplicates before this is reached.
func NewComponentSet(components []Component) ComponentSet {
	set := make(ComponentSet, len(components))
	for _, c := range components {
		set[c.ID] = c
	}
	return set
}

// Ordered returns the components in canonical order, skipping missing ones.
func (s ComponentSet) Ordered() []Component {
	out := make([]Component, 0, len(s))
	for _, id := range ComponentIDs {
		if c, ok := s[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Board is the rectangular placement domain.
type Board struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

func DefaultBoard() Board {
	return Board{Width: 50, Height: 50}
}

// Bounds returns the board as a rectangle anchored at the origin.
func (b Board) Bounds() geometry.Rect {
	return geometry.NewRect(0, 0, b.Width, b.Height)
}

// Center returns the geometric centre of the board.
func (b Board) Center() geometry.Point {
	return geometry.Point{X: b.Width / 2, Y: b.Height / 2}
}

// Area returns the board area.
func (b Board) Area() float64 {
	return b.Width * b.Height
}

// TouchedEdges returns every board edge that r lies flush against, in
// Edges order.
func (b Board) TouchedEdges(r geometry.Rect) []Edge {
	var edges []Edge
	if geometry.NearlyEqual(r.Y, 0) {
		edges = append(edges, EdgeTop)
	}
	if geometry.NearlyEqual(r.Bottom(), b.Height) {
		edges = append(edges, EdgeBottom)
	}
	if geometry.NearlyEqual(r.X, 0) {
		edges = append(edges, EdgeLeft)
	}
	if geometry.NearlyEqual(r.Right(), b.Width) {
		edges = append(edges, EdgeRight)
	}
	return edges
}

// Placement is a component positioned on the board.
type Placement struct {
	Component Component `json:"component"`
	X         float64   `json:"x"`       // Position from left edge
	Y         float64   `json:"y"`       // Position from top edge
	Rotated   bool      `json:"rotated"` // Whether the component was turned 90°
}

// PlacedWidth returns the effective width considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Component.Height
	}
	return p.Component.Width
}

// PlacedHeight returns the effective height considering rotation.
func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Component.Width
	}
	return p.Component.Height
}

// Rotation returns the orientation in degrees (0 or 90).
func (p Placement) Rotation() int {
	if p.Rotated {
		return 90
	}
	return 0
}

func (p Placement) Rect() geometry.Rect {
	return geometry.NewRect(p.X, p.Y, p.PlacedWidth(), p.PlacedHeight())
}

func (p Placement) Center() geometry.Point {
	return p.Rect().Center()
}

// Layout assigns a placement to every component.
type Layout map[ComponentID]Placement

// Complete reports whether every known component is placed exactly once
// and nothing else is.
func (l Layout) Complete() bool {
	if len(l) != len(ComponentIDs) {
		return false
	}
	for _, id := range ComponentIDs {
		p, ok := l[id]
		if !ok || p.Component.ID != id {
			return false
		}
	}
	return true
}

// Ordered returns the placements in canonical component order.
func (l Layout) Ordered() []Placement {
	out := make([]Placement, 0, len(l))
	for _, id := range ComponentIDs {
		if p, ok := l[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns an independent copy of the layout.
func (l Layout) Clone() Layout {
	cp := make(Layout, len(l))
	for id, p := range l {
		cp[id] = p
	}
	return cp
}
