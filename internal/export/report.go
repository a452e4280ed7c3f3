// Package export writes placement results as text summaries, PDF reports,
// PNG plots, Excel workbooks and DXF drawings.
package export

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piwi3910/BoardPlace/internal/engine"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// ErrNoSolution is returned by exporters that need a placed layout.
var ErrNoSolution = errors.New("no solution to export")

// Report is everything an exporter needs: the static setup and the result
// of a search. Result.Best is nil when no solution was found.
type Report struct {
	Board      model.Board
	Components []model.Component
	Settings   model.Settings
	Result     model.Result
}

// Solution returns the best layout or ErrNoSolution.
func (r Report) Solution() (*model.Solution, error) {
	if !r.Result.Found() {
		return nil, ErrNoSolution
	}
	return r.Result.Best, nil
}

// Verdict re-evaluates the solution with every rule so reports can show
// each measured value. It returns an empty verdict without a solution.
func (r Report) Verdict() engine.Verdict {
	if !r.Result.Found() {
		return engine.Verdict{}
	}
	return engine.NewEvaluator(r.Board, r.Settings).Evaluate(r.Result.Best.Layout, true)
}

// rgb is a fill colour for a component in plots.
type rgb struct {
	R, G, B uint8
}

// componentColors mirrors the colour scheme used by the board canvas widget.
var componentColors = map[model.ComponentID]rgb{
	model.USB:     {R: 33, G: 150, B: 243}, // blue
	model.MB1:     {R: 121, G: 85, B: 72},  // brown
	model.MB2:     {R: 121, G: 85, B: 72},  // brown
	model.MCU:     {R: 76, G: 175, B: 80},  // green
	model.Crystal: {R: 255, G: 152, B: 0},  // orange
}

var (
	boardFill    = rgb{R: 34, G: 102, B: 51} // solder-mask green
	keepoutFill  = rgb{R: 255, G: 200, B: 200}
	keepoutLine  = rgb{R: 200, G: 0, B: 0}
	traceColor   = rgb{R: 255, G: 235, B: 59}
	comMarker    = rgb{R: 244, G: 67, B: 54}
	centerMarker = rgb{R: 255, G: 255, B: 255}
)

func colorFor(id model.ComponentID) rgb {
	if c, ok := componentColors[id]; ok {
		return c
	}
	return rgb{R: 158, G: 158, B: 158}
}

// PlacementPayload is the compact JSON form of a layout carried in the PDF
// QR code.
type PlacementPayload struct {
	RunID  string            `json:"run"`
	Board  [2]float64        `json:"board"`
	Score  float64           `json:"score"`
	Places []PlacementRecord `json:"placements"`
}

// PlacementRecord is one component in a PlacementPayload.
type PlacementRecord struct {
	ID       model.ComponentID `json:"id"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Width    float64           `json:"w"`
	Height   float64           `json:"h"`
	Rotation int               `json:"rot"`
}

// CollectPlacements flattens a solution into records in canonical order.
func CollectPlacements(sol *model.Solution) []PlacementRecord {
	var out []PlacementRecord
	for _, p := range sol.Layout.Ordered() {
		out = append(out, PlacementRecord{
			ID:       p.Component.ID,
			X:        p.X,
			Y:        p.Y,
			Width:    p.PlacedWidth(),
			Height:   p.PlacedHeight(),
			Rotation: p.Rotation(),
		})
	}
	return out
}

// Payload builds the QR payload for the report's solution.
func (r Report) Payload() ([]byte, error) {
	sol, err := r.Solution()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(PlacementPayload{
		RunID:  sol.RunID,
		Board:  [2]float64{r.Board.Width, r.Board.Height},
		Score:  sol.Score,
		Places: CollectPlacements(sol),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal placement payload: %w", err)
	}
	return data, nil
}
