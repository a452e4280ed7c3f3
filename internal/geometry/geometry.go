// Package geometry provides the axis-aligned primitives used by the placement
// engine: points, rectangles, overlap and containment tests, and segment
// clipping.
//
// Every boundary comparison in this package goes through Epsilon so that a
// rectangle that touches another, or sits exactly on the board edge, is
// classified the same way on every run.
package geometry

import "math"

// Epsilon is the single tolerance used for all boundary classification.
const Epsilon = 1e-9

// NearlyEqual reports whether a and b are within Epsilon of each other.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Point is a 2D coordinate. Y grows downward, matching the board origin at
// the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a Rect.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectFromEdges builds a Rect from its left, top, right and bottom edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return RectFromEdges(
		math.Min(r.X, other.X),
		math.Min(r.Y, other.Y),
		math.Max(r.Right(), other.Right()),
		math.Max(r.Bottom(), other.Bottom()),
	)
}

// Clip returns r clipped to bounds. The result has zero size when they do
// not intersect.
func (r Rect) Clip(bounds Rect) Rect {
	left := math.Max(r.X, bounds.X)
	top := math.Max(r.Y, bounds.Y)
	right := math.Min(r.Right(), bounds.Right())
	bottom := math.Min(r.Bottom(), bounds.Bottom())
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return RectFromEdges(left, top, right, bottom)
}

// Overlaps returns true if the interiors of a and b intersect.
// Rectangles that only share an edge or a corner do not overlap, and a
// zero-area rectangle never overlaps anything, itself included.
func Overlaps(a, b Rect) bool {
	if a.Width <= Epsilon || a.Height <= Epsilon || b.Width <= Epsilon || b.Height <= Epsilon {
		return false
	}
	if a.Right() <= b.X+Epsilon || b.Right() <= a.X+Epsilon {
		return false
	}
	if a.Bottom() <= b.Y+Epsilon || b.Bottom() <= a.Y+Epsilon {
		return false
	}
	return true
}

// Contains returns true if r lies entirely within bounds. Edges are
// inclusive: a rectangle flush against the boundary is contained.
func Contains(bounds, r Rect) bool {
	return r.X >= bounds.X-Epsilon &&
		r.Y >= bounds.Y-Epsilon &&
		r.Right() <= bounds.Right()+Epsilon &&
		r.Bottom() <= bounds.Bottom()+Epsilon
}

// SegmentIntersectsRect returns true if the segment p1-p2 touches the
// boundary or the interior of r. It uses Liang-Barsky parametric clipping.
func SegmentIntersectsRect(p1, p2 Point, r Rect) bool {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{p1.X - r.X, r.Right() - p1.X, p1.Y - r.Y, r.Bottom() - p1.Y}

	u1, u2 := 0.0, 1.0
	for i := 0; i < 4; i++ {
		if math.Abs(p[i]) < Epsilon {
			// Parallel to this edge: reject when outside it.
			if q[i] < -Epsilon {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2+Epsilon {
				return false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1-Epsilon {
				return false
			}
			if t < u2 {
				u2 = t
			}
		}
	}
	return u1 <= u2+Epsilon
}
