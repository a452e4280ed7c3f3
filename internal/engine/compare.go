package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the search result and summary statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.Result
	Err          error // Validation or feasibility failure, nil otherwise
	Score        float64
	FeasibleRate float64 // Feasible candidates per iteration
}

// CompareScenarios runs the search for each scenario and returns the results
// in scenario order. This enables side-by-side comparison of different
// search parameters (e.g., seeds, strategies, score weights). It stops early
// only when ctx is cancelled.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, board model.Board, components []model.Component, logger *log.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Solve(ctx, board, components, scenario.Settings, logger)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}

		cr := ComparisonResult{
			Scenario: scenario,
			Result:   result,
			Err:      err,
		}
		if result.Best != nil {
			cr.Score = result.Best.Score
		}
		if result.Iterations > 0 {
			cr.FeasibleRate = float64(result.Feasible) / float64(result.Iterations)
		}
		results = append(results, cr)
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: Try the other strategy
	altStrategy := baseSettings
	if baseSettings.Strategy == model.StrategyRandom {
		altStrategy.Strategy = model.StrategySweep
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Sweep Strategy",
			Settings: altStrategy,
		})
	} else {
		altStrategy.Strategy = model.StrategyRandom
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Random Strategy",
			Settings: altStrategy,
		})
	}

	// Scenario: Different seeds
	for _, offset := range []int64{1, 2} {
		reseeded := baseSettings
		reseeded.Seed = baseSettings.Seed + offset
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Seed %d", reseeded.Seed),
			Settings: reseeded,
		})
	}

	// Scenario: Favour compact layouts
	compact := baseSettings
	compact.WasteWeight = baseSettings.WasteWeight * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Waste Weight %.1f", compact.WasteWeight),
		Settings: compact,
	})

	// Scenario: Area-weighted centre of mass
	if baseSettings.CenterOfMass != model.CenterOfMassArea {
		weighted := baseSettings
		weighted.CenterOfMass = model.CenterOfMassArea
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Area-weighted COM",
			Settings: weighted,
		})
	}

	return scenarios
}
