package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/swarmstat/internal/sim"
	"github.com/san-kum/swarmstat/internal/zone"
)

// Failure is a run excluded from a batch under SkipFailed.
type Failure struct {
	Run Run
	Err error
}

// Outcome pairs a run with its sampled result.
type Outcome struct {
	Run    Run
	Result *sim.Result
}

// OccupancyOutcome pairs a run with its occupancy scan.
type OccupancyOutcome struct {
	Run       Run
	Occupancy *zone.Occupancy
}

// RunAll samples every run, one worker per run up to Config.Workers
// (GOMAXPROCS when zero). It returns only after every run has finished.
func (e *Experiment) RunAll(ctx context.Context, runs []Run) (*RunCollection, error) {
	results, failures, err := forEach(ctx, e, runs, func(ctx context.Context, r Run) (*sim.Result, error) {
		return e.Sample(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	coll := &RunCollection{Failures: failures}
	for i, res := range results {
		if res != nil {
			coll.Outcomes = append(coll.Outcomes, Outcome{Run: runs[i], Result: res})
		}
	}
	return coll, nil
}

// OccupancyAll scans every run for zone occupancy.
func (e *Experiment) OccupancyAll(ctx context.Context, runs []Run) ([]OccupancyOutcome, []Failure, error) {
	results, failures, err := forEach(ctx, e, runs, e.Occupancy)
	if err != nil {
		return nil, nil, err
	}

	out := make([]OccupancyOutcome, 0, len(runs))
	for i, occ := range results {
		if occ != nil {
			out = append(out, OccupancyOutcome{Run: runs[i], Occupancy: occ})
		}
	}
	return out, failures, nil
}

// forEach applies fn to every run concurrently. Results are indexed like
// runs; a nil result marks a skipped failure.
func forEach[T any](ctx context.Context, e *Experiment, runs []Run, fn func(context.Context, Run) (*T, error)) ([]*T, []Failure, error) {
	results := make([]*T, len(runs))
	errs := make([]error, len(runs))

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0

	for i, r := range runs {
		g.Go(func() error {
			start := time.Now()
			e.logger.Debug("run started", slog.String("run", r.ID.String()))

			res, err := fn(gctx, r)
			if err != nil {
				err = fmt.Errorf("run %s: %w", r.ID, err)
				if e.cfg.Policy == FailFast || gctx.Err() != nil {
					e.logger.Error("run failed", slog.String("run", r.ID.String()), slog.Any("err", err))
					return err
				}
				e.logger.Warn("run skipped", slog.String("run", r.ID.String()), slog.Any("err", err))
				errs[i] = err
				return nil
			}
			results[i] = res

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			e.logger.Info("run finished",
				slog.String("run", r.ID.String()),
				slog.Duration("elapsed", time.Since(start)),
				slog.Int("done", n),
				slog.Int("total", len(runs)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var failures []Failure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, Failure{Run: runs[i], Err: err})
		}
	}
	return results, failures, nil
}
