package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// orientations returns the rotations a component may take.
func orientations(c model.Component) []bool {
	if c.Rotatable {
		return []bool{false, true}
	}
	return []bool{false}
}

func fits(board model.Board, w, h float64) bool {
	return w <= board.Width+geometry.Epsilon && h <= board.Height+geometry.Epsilon
}

// CheckFeasibility rejects configurations that no layout can satisfy, so
// the search does not burn its whole budget on them. It assumes the
// configuration already passed model.Validate.
func CheckFeasibility(board model.Board, components []model.Component, settings model.Settings) error {
	set := model.NewComponentSet(components)

	areas := make([]float64, 0, len(components))
	for _, c := range set.Ordered() {
		ok := false
		for _, r := range orientations(c) {
			w, h := c.Dims(r)
			if fits(board, w, h) {
				ok = true
				break
			}
		}
		if !ok {
			return model.InfeasibleError("component %s (%gx%g) does not fit on a %gx%g board",
				c.ID, c.Width, c.Height, board.Width, board.Height)
		}
		areas = append(areas, c.Area())
	}

	if total := floats.Sum(areas); total > board.Area()+geometry.Epsilon {
		return model.InfeasibleError("total component area %g exceeds board area %g", total, board.Area())
	}

	if !mbPairFits(board, set[model.MB1], set[model.MB2]) {
		return model.InfeasibleError("MB1 and MB2 cannot sit parallel on opposite edges")
	}

	if d := minCenterDistance(set[model.MCU], set[model.Crystal]); d > settings.MaxCrystalDistance+geometry.Epsilon {
		return model.InfeasibleError("crystal and MCU centres are at least %.2f apart without overlapping, limit is %.2f",
			d, settings.MaxCrystalDistance)
	}
	return nil
}

// mbPairFits reports whether MB1 and MB2 can face each other across the
// board in parallel orientations without overlapping.
func mbPairFits(board model.Board, mb1, mb2 model.Component) bool {
	for _, r1 := range orientations(mb1) {
		for _, r2 := range orientations(mb2) {
			a := model.Placement{Component: mb1, Rotated: r1}
			b := model.Placement{Component: mb2, Rotated: r2}
			if !parallel(a, b) {
				continue
			}
			w1, h1 := mb1.Dims(r1)
			w2, h2 := mb2.Dims(r2)
			leftRight := w1+w2 <= board.Width+geometry.Epsilon && fits(board, w1, h1) && fits(board, w2, h2)
			topBottom := h1+h2 <= board.Height+geometry.Epsilon && fits(board, w1, h1) && fits(board, w2, h2)
			if leftRight || topBottom {
				return true
			}
		}
	}
	return false
}

// minCenterDistance returns the smallest centre distance two components
// can have while not overlapping: side by side along whichever axis is
// shorter.
func minCenterDistance(a, b model.Component) float64 {
	best := math.Inf(1)
	for _, ra := range orientations(a) {
		for _, rb := range orientations(b) {
			wa, ha := a.Dims(ra)
			wb, hb := b.Dims(rb)
			best = math.Min(best, math.Min((wa+wb)/2, (ha+hb)/2))
		}
	}
	return best
}
