package model

import (
	"time"

	"github.com/piwi3910/BoardPlace/internal/geometry"
)

// OverlapPair names two components whose rectangles overlap.
type OverlapPair struct {
	A ComponentID `json:"a"`
	B ComponentID `json:"b"`
}

// Diagnostics holds the measured value behind every hard constraint.
type Diagnostics struct {
	EdgeContacts    map[ComponentID][]Edge `json:"edge_contacts"`
	MBOpposite      bool                   `json:"mb_opposite"`
	MBParallel      bool                   `json:"mb_parallel"`
	CrystalDistance float64                `json:"crystal_distance"`
	Overlaps        []OverlapPair          `json:"overlaps"`
	OutOfBounds     []ComponentID          `json:"out_of_bounds"`
	CenterOfMass    geometry.Point         `json:"center_of_mass"`
	CenterOffset    float64                `json:"center_offset"`
	Keepout         geometry.Rect          `json:"keepout"`
	KeepoutEdge     Edge                   `json:"keepout_edge"`
	KeepoutCrossed  bool                   `json:"keepout_crossed"`
}

// ScoreBreakdown shows the two soft terms that make up a score.
type ScoreBreakdown struct {
	Slack      float64 `json:"slack"`      // Unused bounding-box area as a fraction of the board
	Centrality float64 `json:"centrality"` // 1 at the board centre, 0 at a corner
	Score      float64 `json:"score"`
}

// Solution is a layout that satisfies every hard constraint.
type Solution struct {
	RunID       string         `json:"run_id"`
	Layout      Layout         `json:"layout"`
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Diagnostics Diagnostics    `json:"diagnostics"`
	Iteration   int            `json:"iteration"` // Iteration at which it was found
}

// Status is the state of a search.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusExhausted Status = "exhausted" // Budget consumed without a feasible layout
)

// Result is the outcome of a search run.
type Result struct {
	RunID      string        `json:"run_id"`
	Status     Status        `json:"status"`
	Best       *Solution     `json:"best,omitempty"`
	Iterations int           `json:"iterations"`
	Feasible   int           `json:"feasible"` // Candidates that passed every hard rule
	Elapsed    time.Duration `json:"elapsed"`
	Seed       int64         `json:"seed"`
	Strategy   Strategy      `json:"strategy"`
}

// Found reports whether the search produced a solution.
func (r Result) Found() bool {
	return r.Status == StatusSucceeded && r.Best != nil
}
