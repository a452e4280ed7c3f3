package model

import "time"

// AppConfig holds user-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new runs
	DefaultSeed       int64    `json:"default_seed"`
	DefaultTimeBudget float64  `json:"default_time_budget"` // seconds
	DefaultStrategy   Strategy `json:"default_strategy"`
	DefaultOutputDir  string   `json:"default_output_dir"`
	DefaultFormats    []string `json:"default_formats"`

	// Application preferences
	RecentSolutions []string `json:"recent_solutions"`
	MaxRecent       int      `json:"max_recent"`
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSeed:       defaults.Seed,
		DefaultTimeBudget: defaults.TimeBudget.Seconds(),
		DefaultStrategy:   defaults.Strategy,
		DefaultOutputDir:  ".",
		DefaultFormats:    []string{"summary", "png", "json"},
		RecentSolutions:   []string{},
		MaxRecent:         10,
	}
}

// ApplyToSettings copies the user's saved defaults into s.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Seed = c.DefaultSeed
	if c.DefaultTimeBudget > 0 {
		s.TimeBudget = time.Duration(c.DefaultTimeBudget * float64(time.Second))
	}
	if c.DefaultStrategy != "" {
		s.Strategy = c.DefaultStrategy
	}
}

// AddRecent records path as the most recent solution, dropping duplicates
// and trimming the list to MaxRecent entries.
func (c *AppConfig) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.RecentSolutions {
		if p != path {
			recent = append(recent, p)
		}
	}
	limit := c.MaxRecent
	if limit <= 0 {
		limit = 10
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentSolutions = recent
}
