package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// Search drives a generator through the evaluator and keeps the best
// feasible layout. A Search is single-use and not safe for concurrent use.
type Search struct {
	board      model.Board
	components []model.Component
	settings   model.Settings

	gen    Generator
	eval   *Evaluator
	logger *log.Logger
	now    func() time.Time
	runID  string

	status     model.Status
	best       *model.Solution
	iterations int
	feasible   int
}

// Option customises a Search.
type Option func(*Search)

// WithGenerator replaces the generator chosen from settings.Strategy.
func WithGenerator(g Generator) Option {
	return func(s *Search) { s.gen = g }
}

// WithLogger sets the logger used for progress output.
func WithLogger(l *log.Logger) Option {
	return func(s *Search) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for the deadline.
func WithClock(now func() time.Time) Option {
	return func(s *Search) { s.now = now }
}

// WithRunID sets the run identifier stamped on the result.
func WithRunID(id string) Option {
	return func(s *Search) { s.runID = id }
}

// NewSearch creates a search over the given configuration. The inputs are
// assumed valid; use Solve to validate and check feasibility first.
func NewSearch(board model.Board, components []model.Component, settings model.Settings, opts ...Option) *Search {
	s := &Search{
		board:      board,
		components: components,
		settings:   settings,
		eval:       NewEvaluator(board, settings),
		logger:     log.New(io.Discard),
		now:        time.Now,
		status:     model.StatusRunning,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(board, components, settings)
	}
	if s.runID == "" {
		s.runID = newRunID()
	}
	return s
}

func newRunID() string {
	return uuid.New().String()[:8]
}

// Status returns the current state of the search.
func (s *Search) Status() model.Status { return s.status }

// Best returns the best solution found so far, or nil.
func (s *Search) Best() *model.Solution { return s.best }

// Run iterates until the time budget, the iteration cap or the generator
// runs out, or ctx is cancelled. Cancellation is checked at the top of
// every iteration and returns ctx.Err() together with the result reached
// so far. Exhausting the budget without a feasible layout is reported
// through Result.Status, not as an error.
func (s *Search) Run(ctx context.Context) (model.Result, error) {
	start := s.now()
	var deadline time.Time
	if s.settings.TimeBudget > 0 {
		deadline = start.Add(s.settings.TimeBudget)
	}

	s.logger.Debug("search started",
		"run", s.runID,
		"strategy", s.settings.Strategy,
		"seed", s.settings.Seed,
		"budget", s.settings.TimeBudget,
		"max_iterations", s.settings.MaxIterations)

	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if s.settings.MaxIterations > 0 && s.iterations >= s.settings.MaxIterations {
			break
		}
		if !deadline.IsZero() && !s.now().Before(deadline) {
			break
		}

		layout, ok := s.gen.Next()
		if !ok {
			break
		}
		s.iterations++
		s.consider(layout)

		if s.settings.LogEvery > 0 && s.iterations%s.settings.LogEvery == 0 {
			s.logProgress()
		}
		if s.settings.StopOnFirst && s.best != nil {
			break
		}
	}

	s.finish()
	result := model.Result{
		RunID:      s.runID,
		Status:     s.status,
		Best:       s.best,
		Iterations: s.iterations,
		Feasible:   s.feasible,
		Elapsed:    s.now().Sub(start),
		Seed:       s.settings.Seed,
		Strategy:   s.settings.Strategy,
	}
	s.logger.Debug("search finished",
		"run", s.runID,
		"status", result.Status,
		"iterations", result.Iterations,
		"feasible", result.Feasible,
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, runErr
}

// consider evaluates one candidate and keeps it if it beats the best.
func (s *Search) consider(layout model.Layout) {
	verdict := s.eval.Evaluate(layout, false)
	if !verdict.Feasible() {
		return
	}
	s.feasible++

	breakdown := s.eval.Score(layout)
	if s.best != nil && breakdown.Score <= s.best.Score {
		return
	}
	s.best = &model.Solution{
		RunID:       s.runID,
		Layout:      layout.Clone(),
		Score:       breakdown.Score,
		Breakdown:   breakdown,
		Diagnostics: verdict.Diagnostics,
		Iteration:   s.iterations,
	}
	s.logger.Debug("new best layout", "iteration", s.iterations, "score", breakdown.Score)
}

// finish moves the search into its terminal state and attaches full
// diagnostics to the best layout.
func (s *Search) finish() {
	if s.best == nil {
		s.status = model.StatusExhausted
		return
	}
	s.status = model.StatusSucceeded
	s.best.Diagnostics = s.eval.Evaluate(s.best.Layout, true).Diagnostics
}

func (s *Search) logProgress() {
	kv := []any{"iteration", s.iterations, "feasible", s.feasible}
	if s.best != nil {
		kv = append(kv, "best", s.best.Score)
	}
	s.logger.Debug("search progress", kv...)
}

// Solve validates the configuration, rejects inputs that can never be
// satisfied, then runs the search. Settings.Workers above one runs the
// parallel search.
func Solve(ctx context.Context, board model.Board, components []model.Component, settings model.Settings, logger *log.Logger) (model.Result, error) {
	if err := model.Validate(board, components, settings); err != nil {
		return model.Result{}, err
	}
	if err := CheckFeasibility(board, components, settings); err != nil {
		return model.Result{}, err
	}
	if settings.Workers > 1 {
		return RunParallel(ctx, board, components, settings, settings.Workers, logger)
	}
	return NewSearch(board, components, settings, WithLogger(logger)).Run(ctx)
}
