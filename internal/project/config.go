package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// RunConfig is the on-disk TOML form of a placement run. Keys left out of
// the file keep their default values.
type RunConfig struct {
	Board       model.Board       `toml:"board"`
	Components  []ComponentConfig `toml:"component"`
	Search      SearchConfig      `toml:"search"`
	Constraints ConstraintConfig  `toml:"constraints"`
	Score       ScoreConfig       `toml:"score"`
}

// ComponentConfig is a [[component]] table. Rule and rotatable fall back to
// the stock component with the same id when omitted.
type ComponentConfig struct {
	ID        string  `toml:"id"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	Rule      string  `toml:"rule,omitempty"`
	Rotatable *bool   `toml:"rotatable"`
}

type SearchConfig struct {
	Seed          int64   `toml:"seed"`
	TimeBudget    string  `toml:"time_budget"` // Go duration, e.g. "1.9s"; "0" for none
	MaxIterations int     `toml:"max_iterations"`
	Strategy      string  `toml:"strategy"`
	GridStep      float64 `toml:"grid_step"`
	OppositeBias  float64 `toml:"opposite_bias"`
	CrystalBias   float64 `toml:"crystal_bias"`
	StopOnFirst   bool    `toml:"stop_on_first"`
	LogEvery      int     `toml:"log_every"`
	Workers       int     `toml:"workers"`
}

type ConstraintConfig struct {
	MaxCrystalDistance float64 `toml:"max_crystal_distance"`
	MaxCenterOffset    float64 `toml:"max_center_offset"`
	KeepoutWidth       float64 `toml:"keepout_width"`
	KeepoutDepth       float64 `toml:"keepout_depth"`
	CenterOfMass       string  `toml:"center_of_mass"`
}

type ScoreConfig struct {
	WasteWeight      float64 `toml:"waste_weight"`
	CentralityWeight float64 `toml:"centrality_weight"`
}

// NewRunConfig converts a resolved configuration into its file form.
func NewRunConfig(board model.Board, components []model.Component, s model.Settings) RunConfig {
	cfg := RunConfig{
		Board: board,
		Search: SearchConfig{
			Seed:          s.Seed,
			TimeBudget:    s.TimeBudget.String(),
			MaxIterations: s.MaxIterations,
			Strategy:      string(s.Strategy),
			GridStep:      s.GridStep,
			OppositeBias:  s.OppositeBias,
			CrystalBias:   s.CrystalBias,
			StopOnFirst:   s.StopOnFirst,
			LogEvery:      s.LogEvery,
			Workers:       s.Workers,
		},
		Constraints: ConstraintConfig{
			MaxCrystalDistance: s.MaxCrystalDistance,
			MaxCenterOffset:    s.MaxCenterOffset,
			KeepoutWidth:       s.KeepoutWidth,
			KeepoutDepth:       s.KeepoutDepth,
			CenterOfMass:       string(s.CenterOfMass),
		},
		Score: ScoreConfig{
			WasteWeight:      s.WasteWeight,
			CentralityWeight: s.CentralityWeight,
		},
	}
	for _, c := range components {
		rotatable := c.Rotatable
		cfg.Components = append(cfg.Components, ComponentConfig{
			ID:        string(c.ID),
			Width:     c.Width,
			Height:    c.Height,
			Rule:      string(c.Rule),
			Rotatable: &rotatable,
		})
	}
	return cfg
}

// DefaultRunConfig returns the stock board, components and settings.
func DefaultRunConfig() RunConfig {
	return NewRunConfig(model.DefaultBoard(), model.DefaultComponents(), model.DefaultSettings())
}

// Resolve turns the file form into model types. It does not validate the
// values; run model.Validate on the result.
func (c RunConfig) Resolve() (model.Board, []model.Component, model.Settings, error) {
	budget, err := parseBudget(c.Search.TimeBudget)
	if err != nil {
		return model.Board{}, nil, model.Settings{}, err
	}

	settings := model.Settings{
		Seed:               c.Search.Seed,
		TimeBudget:         budget,
		MaxIterations:      c.Search.MaxIterations,
		Strategy:           model.Strategy(c.Search.Strategy),
		GridStep:           c.Search.GridStep,
		OppositeBias:       c.Search.OppositeBias,
		CrystalBias:        c.Search.CrystalBias,
		StopOnFirst:        c.Search.StopOnFirst,
		LogEvery:           c.Search.LogEvery,
		Workers:            c.Search.Workers,
		MaxCrystalDistance: c.Constraints.MaxCrystalDistance,
		MaxCenterOffset:    c.Constraints.MaxCenterOffset,
		KeepoutWidth:       c.Constraints.KeepoutWidth,
		KeepoutDepth:       c.Constraints.KeepoutDepth,
		CenterOfMass:       model.CenterOfMassMode(c.Constraints.CenterOfMass),
		WasteWeight:        c.Score.WasteWeight,
		CentralityWeight:   c.Score.CentralityWeight,
	}

	stock := model.NewComponentSet(model.DefaultComponents())
	components := make([]model.Component, 0, len(c.Components))
	for _, cc := range c.Components {
		comp := model.Component{
			ID:     model.ComponentID(cc.ID),
			Width:  cc.Width,
			Height: cc.Height,
			Rule:   model.PlacementRule(cc.Rule),
		}
		def, known := stock[comp.ID]
		switch {
		case cc.Rotatable != nil:
			comp.Rotatable = *cc.Rotatable
		case known:
			comp.Rotatable = def.Rotatable
		default:
			comp.Rotatable = true
		}
		if comp.Rule == "" && known {
			comp.Rule = def.Rule
		}
		components = append(components, comp)
	}
	return c.Board, components, settings, nil
}

func parseBudget(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &model.ValidationError{
			Field:   "search.time_budget",
			Message: fmt.Sprintf("not a duration: %q", s),
		}
	}
	return d, nil
}

// LoadRunConfig reads a TOML run configuration. If the file does not exist,
// it returns DefaultRunConfig with no error.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRunConfig(), nil
		}
		return RunConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseRunConfig(data)
}

// ParseRunConfig decodes TOML on top of the defaults. A [[component]] list,
// when present, replaces the stock component list as a whole.
func ParseRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	stockComponents := cfg.Components
	cfg.Components = nil

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%w: failed to parse config file: %v", model.ErrInvalidConfiguration, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return RunConfig{}, &model.ValidationError{
			Field:   undecoded[0].String(),
			Message: "unknown configuration key",
		}
	}
	if !md.IsDefined("component") {
		cfg.Components = stockComponents
	}
	return cfg, nil
}

// SaveRunConfig writes cfg as TOML, creating parent directories.
func SaveRunConfig(path string, cfg RunConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
