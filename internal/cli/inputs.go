package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/importer"
	"github.com/piwi3910/BoardPlace/internal/model"
	"github.com/piwi3910/BoardPlace/internal/project"
)

// inputOpts holds the flags that decide what gets solved.
type inputOpts struct {
	configPath string        // TOML run configuration, empty for defaults
	preset     string        // saved preset name, exclusive with configPath
	footprints string        // CSV, XLSX or DXF footprint overrides
	seed       int64         // random generator seed
	budget     time.Duration // wall-clock budget, 0 for none
	iterations int           // iteration cap, 0 for none
	strategy   string        // candidate generator: random or sweep
	workers    int           // parallel search workers
	first      bool          // stop at the first feasible layout
}

// runInputs is a resolved, validated problem.
type runInputs struct {
	board      model.Board
	components []model.Component
	settings   model.Settings
	appConfig  model.AppConfig
}

func addInputFlags(cmd *cobra.Command, opts *inputOpts) {
	defaults := model.DefaultSettings()
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML run configuration (missing file uses defaults)")
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "saved preset to solve (see config preset)")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
	cmd.Flags().StringVar(&opts.footprints, "footprints", "", "component footprints from a CSV, XLSX or DXF file")
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed, "random generator seed")
	cmd.Flags().DurationVar(&opts.budget, "time", defaults.TimeBudget, "search time budget (0 for none)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", defaults.MaxIterations, "maximum candidates to evaluate (0 for none)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", string(defaults.Strategy), "candidate generator: random, sweep")
	cmd.Flags().IntVar(&opts.workers, "workers", defaults.Workers, "parallel search workers")
	cmd.Flags().BoolVar(&opts.first, "first", false, "stop at the first feasible placement")
}

// loadInputs resolves the run configuration or preset, user defaults,
// footprint file and flags, in increasing order of precedence. Only flags
// the user set override the configuration.
func loadInputs(cmd *cobra.Command, opts inputOpts, logger *log.Logger) (runInputs, error) {
	appCfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("ignoring unreadable app config", "err", err)
		appCfg = model.DefaultAppConfig()
	}

	board, components, settings, err := resolveProblem(opts, logger)
	if err != nil {
		return runInputs{}, err
	}
	if opts.configPath == "" && opts.preset == "" {
		appCfg.ApplyToSettings(&settings)
	}

	if opts.footprints != "" {
		res := importer.ImportFile(opts.footprints)
		for _, w := range res.Warnings {
			logger.Warn(w, "file", opts.footprints)
		}
		if len(res.Errors) > 0 {
			return runInputs{}, fmt.Errorf("%w: footprints %s: %s",
				model.ErrInvalidConfiguration, opts.footprints, strings.Join(res.Errors, "; "))
		}
		components = importer.Merge(components, res.Components)
		logger.Debug("imported footprints", "path", opts.footprints, "count", len(res.Components))
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		settings.Seed = opts.seed
	}
	if flags.Changed("time") {
		settings.TimeBudget = opts.budget
	}
	if flags.Changed("iterations") {
		settings.MaxIterations = opts.iterations
	}
	if flags.Changed("strategy") {
		settings.Strategy = model.Strategy(strings.ToLower(opts.strategy))
	}
	if flags.Changed("workers") {
		settings.Workers = opts.workers
	}
	if flags.Changed("first") {
		settings.StopOnFirst = opts.first
	}

	if err := model.Validate(board, components, settings); err != nil {
		return runInputs{}, err
	}
	return runInputs{
		board:      board,
		components: components,
		settings:   settings,
		appConfig:  appCfg,
	}, nil
}

// resolveProblem returns the base problem: a saved preset, a TOML run
// configuration, or the defaults.
func resolveProblem(opts inputOpts, logger *log.Logger) (model.Board, []model.Component, model.Settings, error) {
	if opts.preset != "" {
		store, err := project.LoadPresets(project.DefaultPresetPath())
		if err != nil {
			return model.Board{}, nil, model.Settings{}, err
		}
		p := store.FindByName(opts.preset)
		if p == nil {
			return model.Board{}, nil, model.Settings{}, fmt.Errorf("%w: unknown preset %q", model.ErrInvalidConfiguration, opts.preset)
		}
		logger.Debug("using preset", "name", p.Name, "id", p.ID)
		board, components, settings := p.Problem()
		return board, components, settings, nil
	}

	cfg := project.DefaultRunConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = project.LoadRunConfig(opts.configPath)
		if err != nil {
			return model.Board{}, nil, model.Settings{}, err
		}
		logger.Debug("loaded run configuration", "path", opts.configPath)
	}
	return cfg.Resolve()
}
