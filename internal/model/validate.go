package model

import (
	"math"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

// ValidateBoard rejects non-positive or non-finite board dimensions.
func ValidateBoard(b Board) error {
	if !positive(b.Width) {
		return invalid("board.width", "must be a positive finite number, got %v", b.Width)
	}
	if !positive(b.Height) {
		return invalid("board.height", "must be a positive finite number, got %v", b.Height)
	}
	return nil
}

// ValidateComponents checks that every known component appears exactly once
// with a usable footprint and rule.
func ValidateComponents(components []Component) error {
	seen := make(map[ComponentID]bool, len(components))
	for i, c := range components {
		if !c.ID.Valid() {
			return invalid("component", "unknown component id %q at position %d", c.ID, i+1)
		}
		if seen[c.ID] {
			return invalid("component", "duplicate component id %q", c.ID)
		}
		seen[c.ID] = true

		if !positive(c.Width) || !positive(c.Height) {
			return invalid("component."+string(c.ID), "footprint must be positive and finite, got %vx%v", c.Width, c.Height)
		}
		if c.Rule != RuleEdge && c.Rule != RuleFree {
			return invalid("component."+string(c.ID), "unknown placement rule %q", c.Rule)
		}
	}
	for _, id := range ComponentIDs {
		if !seen[id] {
			return invalid("component", "missing component %q", id)
		}
	}
	return nil
}

// ValidateSettings rejects settings the search cannot run with.
func ValidateSettings(s Settings) error {
	if s.TimeBudget < 0 {
		return invalid("search.time_budget", "must not be negative, got %s", s.TimeBudget)
	}
	if s.MaxIterations < 0 {
		return invalid("search.max_iterations", "must not be negative, got %d", s.MaxIterations)
	}
	if s.TimeBudget == 0 && s.MaxIterations == 0 && s.Strategy != StrategySweep {
		return invalid("search", "time_budget and max_iterations are both unbounded")
	}
	switch s.Strategy {
	case StrategyRandom, StrategySweep:
	default:
		return invalid("search.strategy", "unknown strategy %q", s.Strategy)
	}
	if !positive(s.GridStep) {
		return invalid("search.grid_step", "must be a positive finite number, got %v", s.GridStep)
	}
	if !finite(s.OppositeBias) || s.OppositeBias < 0 || s.OppositeBias > 1 {
		return invalid("search.opposite_bias", "must be within [0,1], got %v", s.OppositeBias)
	}
	if !finite(s.CrystalBias) || s.CrystalBias < 0 || s.CrystalBias > 1 {
		return invalid("search.crystal_bias", "must be within [0,1], got %v", s.CrystalBias)
	}
	if s.LogEvery < 0 {
		return invalid("search.log_every", "must not be negative, got %d", s.LogEvery)
	}

	if !finite(s.MaxCrystalDistance) || s.MaxCrystalDistance < 0 {
		return invalid("constraints.max_crystal_distance", "must be a finite non-negative number, got %v", s.MaxCrystalDistance)
	}
	if !finite(s.MaxCenterOffset) || s.MaxCenterOffset < 0 {
		return invalid("constraints.max_center_offset", "must be a finite non-negative number, got %v", s.MaxCenterOffset)
	}
	if !finite(s.KeepoutWidth) || s.KeepoutWidth < 0 {
		return invalid("constraints.keepout_width", "must be a finite non-negative number, got %v", s.KeepoutWidth)
	}
	if !finite(s.KeepoutDepth) || s.KeepoutDepth < 0 {
		return invalid("constraints.keepout_depth", "must be a finite non-negative number, got %v", s.KeepoutDepth)
	}
	switch s.CenterOfMass {
	case CenterOfMassCentroid, CenterOfMassArea:
	default:
		return invalid("constraints.center_of_mass", "unknown mode %q", s.CenterOfMass)
	}

	// Both weights stay positive so the score is strictly monotonic in each term.
	if !positive(s.WasteWeight) {
		return invalid("score.waste_weight", "must be a positive finite number, got %v", s.WasteWeight)
	}
	if !positive(s.CentralityWeight) {
		return invalid("score.centrality_weight", "must be a positive finite number, got %v", s.CentralityWeight)
	}
	return nil
}

// Validate checks the full static configuration. It is run once at setup,
// before any search iteration.
func Validate(board Board, components []Component, settings Settings) error {
	if err := ValidateBoard(board); err != nil {
		return err
	}
	if err := ValidateComponents(components); err != nil {
		return err
	}
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	return validateGrid(board, settings.GridStep)
}

// MaxGridPositions caps the grid positions along either board axis.
const MaxGridPositions = 1_000_000

// validateGrid rejects grid steps so fine that the board would hold more
// than MaxGridPositions positions per axis.
func validateGrid(board Board, step float64) error {
	n := math.Max(board.Width, board.Height) / step
	if !finite(n) || n > MaxGridPositions {
		return invalid("search.grid_step", "%v is too fine for a %vx%v board (max %d positions per axis)",
			step, board.Width, board.Height, MaxGridPositions)
	}
	return nil
}
