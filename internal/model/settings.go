package model

import "time"

// Strategy selects the candidate generator.
type Strategy string

const (
	StrategyRandom Strategy = "random" // Seeded random sampling (default)
	StrategySweep  Strategy = "sweep"  // Deterministic enumeration of mirrored layouts
)

// CenterOfMassMode selects how the layout's centre of mass is computed.
type CenterOfMassMode string

const (
	CenterOfMassCentroid CenterOfMassMode = "centroid" // Unweighted mean of component centres
	CenterOfMassArea     CenterOfMassMode = "area"     // Area-weighted mean of component centres
)

// Settings holds search, constraint and scoring configuration.
type Settings struct {
	// Search settings
	Seed          int64         `json:"seed"`
	TimeBudget    time.Duration `json:"time_budget"`    // 0 = no deadline
	MaxIterations int           `json:"max_iterations"` // 0 = no cap
	Strategy      Strategy      `json:"strategy"`
	GridStep      float64       `json:"grid_step"`     // Position granularity in units
	OppositeBias  float64       `json:"opposite_bias"` // Probability of sampling MB1/MB2 as a mirrored pair
	CrystalBias   float64       `json:"crystal_bias"`  // Probability of sampling the crystal near the MCU
	StopOnFirst   bool          `json:"stop_on_first"` // End the search at the first feasible layout
	LogEvery      int           `json:"log_every"`     // Debug progress interval in iterations, 0 = off
	Workers       int           `json:"workers"`       // Parallel search workers, <= 1 = single-threaded

	// Hard constraint parameters
	MaxCrystalDistance float64          `json:"max_crystal_distance"`
	MaxCenterOffset    float64          `json:"max_center_offset"`
	KeepoutWidth       float64          `json:"keepout_width"` // Across the USB edge
	KeepoutDepth       float64          `json:"keepout_depth"` // Into the board from the USB edge
	CenterOfMass       CenterOfMassMode `json:"center_of_mass"`

	// Soft score weights
	WasteWeight      float64 `json:"waste_weight"`
	CentralityWeight float64 `json:"centrality_weight"`
}

func DefaultSettings() Settings {
	return Settings{
		Seed:               42,
		TimeBudget:         1900 * time.Millisecond,
		MaxIterations:      0,
		Strategy:           StrategyRandom,
		GridStep:           1.0,
		OppositeBias:       0.9,
		CrystalBias:        0.9,
		StopOnFirst:        false,
		LogEvery:           10000,
		Workers:            1,
		MaxCrystalDistance: 10.0,
		MaxCenterOffset:    2.0,
		KeepoutWidth:       10.0,
		KeepoutDepth:       15.0,
		CenterOfMass:       CenterOfMassCentroid,
		WasteWeight:        1.0,
		CentralityWeight:   1.0,
	}
}
