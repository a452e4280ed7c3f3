package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoardPlace/internal/geometry"
)

func TestPlacementRotationSwapsDims(t *testing.T) {
	mb := NewComponent(MB1, 5, 15, RuleEdge)

	p := Placement{Component: mb, X: 0, Y: 10}
	assert.Equal(t, 5.0, p.PlacedWidth())
	assert.Equal(t, 15.0, p.PlacedHeight())
	assert.Equal(t, 0, p.Rotation())

	p.Rotated = true
	assert.Equal(t, 15.0, p.PlacedWidth())
	assert.Equal(t, 5.0, p.PlacedHeight())
	assert.Equal(t, 90, p.Rotation())
	assert.Equal(t, geometry.Point{X: 7.5, Y: 12.5}, p.Center())
}

func TestBoardTouchedEdges(t *testing.T) {
	b := DefaultBoard()

	assert.Equal(t, []Edge{EdgeLeft}, b.TouchedEdges(geometry.NewRect(0, 10, 10, 5)))
	assert.Equal(t, []Edge{EdgeRight}, b.TouchedEdges(geometry.NewRect(40, 10, 10, 5)))
	assert.Equal(t, []Edge{EdgeTop, EdgeLeft}, b.TouchedEdges(geometry.NewRect(0, 0, 5, 5)))
	assert.Equal(t, []Edge{EdgeBottom, EdgeRight}, b.TouchedEdges(geometry.NewRect(45, 45, 5, 5)))
	assert.Empty(t, b.TouchedEdges(geometry.NewRect(10, 10, 5, 5)))
}

func TestEdgeOpposite(t *testing.T) {
	assert.Equal(t, EdgeBottom, EdgeTop.Opposite())
	assert.Equal(t, EdgeTop, EdgeBottom.Opposite())
	assert.Equal(t, EdgeRight, EdgeLeft.Opposite())
	assert.Equal(t, EdgeLeft, EdgeRight.Opposite())
	assert.True(t, EdgeLeft.Vertical())
	assert.False(t, EdgeTop.Vertical())
}

func TestLayoutComplete(t *testing.T) {
	set := NewComponentSet(DefaultComponents())
	layout := Layout{}
	for _, c := range set.Ordered() {
		layout[c.ID] = Placement{Component: c}
	}
	assert.True(t, layout.Complete())

	missing := layout.Clone()
	delete(missing, MCU)
	assert.False(t, missing.Complete())
	assert.True(t, layout.Complete(), "clone must not alias the original")

	mislabeled := layout.Clone()
	mislabeled[MCU] = Placement{Component: set[Crystal]}
	assert.False(t, mislabeled.Complete())
}

func TestLayoutOrderedUsesCanonicalOrder(t *testing.T) {
	layout := Layout{}
	for _, c := range DefaultComponents() {
		layout[c.ID] = Placement{Component: c}
	}
	var ids []ComponentID
	for _, p := range layout.Ordered() {
		ids = append(ids, p.Component.ID)
	}
	assert.Equal(t, ComponentIDs, ids)
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(DefaultBoard(), DefaultComponents(), DefaultSettings()))
}

func TestValidate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Board, comps *[]Component, s *Settings)
		field  string
	}{
		{"negative board width", func(b *Board, _ *[]Component, _ *Settings) { b.Width = -50 }, "board.width"},
		{"nan board height", func(b *Board, _ *[]Component, _ *Settings) { b.Height = math.NaN() }, "board.height"},
		{"duplicate component", func(_ *Board, c *[]Component, _ *Settings) {
			(*c)[4] = NewComponent(MCU, 5, 5, RuleFree)
		}, "component"},
		{"missing component", func(_ *Board, c *[]Component, _ *Settings) { *c = (*c)[:4] }, "component"},
		{"unknown component", func(_ *Board, c *[]Component, _ *Settings) {
			*c = append(*c, NewComponent("LED", 1, 1, RuleFree))
		}, "component"},
		{"zero footprint", func(_ *Board, c *[]Component, _ *Settings) { (*c)[0].Width = 0 }, "component.USB"},
		{"bad rule", func(_ *Board, c *[]Component, _ *Settings) { (*c)[1].Rule = "corner" }, "component.MB1"},
		{"infinite weight", func(_ *Board, _ *[]Component, s *Settings) { s.WasteWeight = math.Inf(1) }, "score.waste_weight"},
		{"negative weight", func(_ *Board, _ *[]Component, s *Settings) { s.CentralityWeight = -1 }, "score.centrality_weight"},
		{"zero waste weight", func(_ *Board, _ *[]Component, s *Settings) { s.WasteWeight = 0 }, "score.waste_weight"},
		{"zero centrality weight", func(_ *Board, _ *[]Component, s *Settings) { s.CentralityWeight = 0 }, "score.centrality_weight"},
		{"unbounded budget", func(_ *Board, _ *[]Component, s *Settings) {
			s.TimeBudget = 0
			s.MaxIterations = 0
		}, "search"},
		{"negative budget", func(_ *Board, _ *[]Component, s *Settings) { s.TimeBudget = -time.Second }, "search.time_budget"},
		{"bias out of range", func(_ *Board, _ *[]Component, s *Settings) { s.OppositeBias = 1.5 }, "search.opposite_bias"},
		{"zero grid step", func(_ *Board, _ *[]Component, s *Settings) { s.GridStep = 0 }, "search.grid_step"},
		{"denormal grid step", func(_ *Board, _ *[]Component, s *Settings) { s.GridStep = 1e-320 }, "search.grid_step"},
		{"grid step too fine", func(_ *Board, _ *[]Component, s *Settings) { s.GridStep = 1e-9 }, "search.grid_step"},
		{"unknown strategy", func(_ *Board, _ *[]Component, s *Settings) { s.Strategy = "annealing" }, "search.strategy"},
		{"unknown com mode", func(_ *Board, _ *[]Component, s *Settings) { s.CenterOfMass = "median" }, "constraints.center_of_mass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultBoard()
			comps := DefaultComponents()
			s := DefaultSettings()
			tt.mutate(&b, &comps, &s)

			err := Validate(b, comps, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_GridStepScalesWithBoard(t *testing.T) {
	s := DefaultSettings()
	s.GridStep = 1e-4

	assert.NoError(t, Validate(DefaultBoard(), DefaultComponents(), s), "500k positions per axis is within the cap")

	large := Board{Width: 500, Height: 50}
	err := Validate(large, DefaultComponents(), s)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "search.grid_step", ve.Field)
}

func TestValidate_SweepMayRunUnbounded(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = StrategySweep
	s.TimeBudget = 0
	s.MaxIterations = 0

	assert.NoError(t, ValidateSettings(s), "sweep enumeration terminates on its own")
}

func TestResultFound(t *testing.T) {
	assert.False(t, Result{Status: StatusExhausted}.Found())
	assert.False(t, Result{Status: StatusSucceeded}.Found())
	assert.True(t, Result{Status: StatusSucceeded, Best: &Solution{}}.Found())
}

func TestInfeasibleError(t *testing.T) {
	err := InfeasibleError("component %s does not fit", MB1)
	assert.True(t, errors.Is(err, ErrInfeasibleInput))
	assert.Contains(t, err.Error(), "MB1 does not fit")
}
