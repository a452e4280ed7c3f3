package engine

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// reducer collects worker results. The best-score comparison happens under
// the mutex so no improvement is lost.
type reducer struct {
	mu         sync.Mutex
	best       *model.Solution
	bestWorker int
	iterations int
	feasible   int
}

func (r *reducer) add(worker int, res model.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.iterations += res.Iterations
	r.feasible += res.Feasible
	if res.Best == nil {
		return
	}
	switch {
	case r.best == nil,
		res.Best.Score > r.best.Score,
		res.Best.Score == r.best.Score && worker < r.bestWorker:
		r.best = res.Best
		r.bestWorker = worker
	}
}

// workerGenerator gives each worker its own source of candidates: random
// workers are seeded seed+worker, sweep workers split the MB pairs.
func workerGenerator(board model.Board, components []model.Component, settings model.Settings, worker, workers int) Generator {
	if settings.Strategy == model.StrategySweep {
		g := newSweepGenerator(board, components, settings)
		g.shard(worker, workers)
		return g
	}
	return newRandomGenerator(board, components, settings, settings.Seed+int64(worker))
}

// RunParallel runs independent searches on workers goroutines and keeps
// the best layout any of them found. The iteration cap is shared between
// workers. With StopOnFirst the first feasible layout stops every worker.
//
// Results are reproducible for a fixed seed only with a single worker; with
// more, which worker reports first depends on goroutine scheduling.
func RunParallel(ctx context.Context, board model.Board, components []model.Component, settings model.Settings, workers int, logger *log.Logger) (model.Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if workers <= 1 {
		return NewSearch(board, components, settings, WithLogger(logger)).Run(ctx)
	}

	perWorker := settings
	if settings.MaxIterations > 0 {
		perWorker.MaxIterations = (settings.MaxIterations + workers - 1) / workers
	}

	runID := newRunID()
	start := time.Now()
	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	var red reducer
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			s := NewSearch(board, components, perWorker,
				WithGenerator(workerGenerator(board, components, perWorker, i, workers)),
				WithLogger(logger.With("worker", i)),
				WithRunID(runID))
			res, err := s.Run(stopCtx)
			red.add(i, res)
			if settings.StopOnFirst && res.Found() {
				stop()
			}
			if err != nil && ctx.Err() == nil {
				// Stopped by a sibling, not by the caller.
				return nil
			}
			return err
		})
	}
	err := g.Wait()

	result := model.Result{
		RunID:      runID,
		Status:     model.StatusExhausted,
		Best:       red.best,
		Iterations: red.iterations,
		Feasible:   red.feasible,
		Elapsed:    time.Since(start),
		Seed:       settings.Seed,
		Strategy:   settings.Strategy,
	}
	if result.Best != nil {
		result.Status = model.StatusSucceeded
	}
	logger.Debug("parallel search finished",
		"run", runID,
		"workers", workers,
		"status", result.Status,
		"iterations", result.Iterations,
		"feasible", result.Feasible)
	return result, err
}
