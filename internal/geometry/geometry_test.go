package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_Symmetric(t *testing.T) {
	rects := []Rect{
		NewRect(0, 0, 10, 10),
		NewRect(5, 5, 10, 10),
		NewRect(10, 0, 5, 5),
		NewRect(20, 20, 1, 1),
		NewRect(3, 3, 0, 4),
		NewRect(-5, 2, 6, 1),
	}
	for _, a := range rects {
		for _, b := range rects {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "overlap must be symmetric for %v / %v", a, b)
		}
	}
}

func TestOverlaps_Self(t *testing.T) {
	assert.True(t, Overlaps(NewRect(10, 10, 5, 5), NewRect(10, 10, 5, 5)))
	assert.False(t, Overlaps(NewRect(10, 10, 0, 5), NewRect(10, 10, 0, 5)), "zero-area rect never overlaps")
}

func TestOverlaps_TouchingEdgesDoNotCount(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.False(t, Overlaps(a, NewRect(10, 0, 5, 5)), "shared vertical edge")
	assert.False(t, Overlaps(a, NewRect(0, 10, 5, 5)), "shared horizontal edge")
	assert.False(t, Overlaps(a, NewRect(10, 10, 5, 5)), "shared corner")
	assert.True(t, Overlaps(a, NewRect(9.5, 9.5, 5, 5)))
}

func TestContains(t *testing.T) {
	board := NewRect(0, 0, 50, 50)

	assert.True(t, Contains(board, NewRect(0, 0, 50, 50)), "edges are inclusive")
	assert.True(t, Contains(board, NewRect(45, 35, 5, 15)))
	assert.False(t, Contains(board, NewRect(46, 0, 5, 5)))
	assert.False(t, Contains(board, NewRect(-0.5, 10, 5, 5)))
	assert.False(t, Contains(board, NewRect(10, 48, 5, 5)))
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := NewRect(10, 10, 10, 10)

	tests := []struct {
		name   string
		p1, p2 Point
		want   bool
	}{
		{"crosses interior", Point{0, 15}, Point{30, 15}, true},
		{"fully inside", Point{12, 12}, Point{18, 18}, true},
		{"ends on boundary", Point{0, 15}, Point{10, 15}, true},
		{"runs along edge", Point{0, 10}, Point{30, 10}, true},
		{"stops short", Point{0, 15}, Point{9, 15}, false},
		{"passes above", Point{0, 5}, Point{30, 5}, false},
		{"diagonal miss", Point{0, 0}, Point{9, 30}, false},
		{"diagonal hit", Point{0, 0}, Point{30, 30}, true},
		{"degenerate inside", Point{15, 15}, Point{15, 15}, true},
		{"degenerate outside", Point{5, 5}, Point{5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentIntersectsRect(tt.p1, tt.p2, r))
			assert.Equal(t, tt.want, SegmentIntersectsRect(tt.p2, tt.p1, r), "direction must not matter")
		})
	}
}

func TestPointDistance(t *testing.T) {
	mcu := Point{25, 25}

	assert.InDelta(t, 5.0, mcu.Distance(Point{30, 25}), 1e-9)
	assert.InDelta(t, 18.0278, mcu.Distance(Point{40, 15}), 1e-3)
	assert.InDelta(t, math.Hypot(15, 15), mcu.Distance(Point{40, 10}), 1e-9)
}

func TestRectUnionAndClip(t *testing.T) {
	a := NewRect(0, 0, 5, 5)
	b := NewRect(10, 20, 5, 5)

	assert.Equal(t, NewRect(0, 0, 15, 25), a.Union(b))

	board := NewRect(0, 0, 50, 50)
	clipped := NewRect(-5, 40, 10, 15).Clip(board)
	assert.Equal(t, NewRect(0, 40, 5, 10), clipped)

	empty := NewRect(60, 60, 5, 5).Clip(board)
	assert.Equal(t, 0.0, empty.Area())
}
