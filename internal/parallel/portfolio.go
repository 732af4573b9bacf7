// Package parallel runs a portfolio of independent search workers and
// collects whichever one finishes first, or merges all of their results,
// depending on the mode requested by the caller.
//
// Each fdsolver.Solver is single-goroutine: its Trail, Queue and stamp clock
// are unsynchronized and must never be touched from more than one
// goroutine. A portfolio run therefore never shares a Solver across
// workers; every worker gets its own Solver built by a factory function
// supplied by the caller (so that each can carry a different random seed,
// variable ordering, or search strategy) and workers communicate only
// through the results and stats collected here.
package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker is one member of a portfolio: a self-contained search that returns
// either a single Assignment-shaped result or an error. T is typically
// fdsolver.Assignment, but the factory stays generic so a portfolio can
// also race independent CheckAssignment-style feasibility probes.
type Worker[T any] func(ctx context.Context) (T, bool, error)

// PortfolioStats tracks how a portfolio run spent its workers: how many
// were launched, and how many completed with or without a result.
type PortfolioStats struct {
	Launched  int64
	Completed int64
	Succeeded int64
	Failed    int64
	start     time.Time
	wall      atomic.Int64
}

// NewPortfolioStats returns a stats collector with its start clock running.
func NewPortfolioStats() *PortfolioStats {
	return &PortfolioStats{start: time.Now()}
}

func (s *PortfolioStats) recordLaunch() { atomic.AddInt64(&s.Launched, 1) }

func (s *PortfolioStats) recordSuccess() {
	atomic.AddInt64(&s.Completed, 1)
	atomic.AddInt64(&s.Succeeded, 1)
}

func (s *PortfolioStats) recordFailure() {
	atomic.AddInt64(&s.Completed, 1)
	atomic.AddInt64(&s.Failed, 1)
}

func (s *PortfolioStats) finish() { s.wall.Store(int64(time.Since(s.start))) }

// WallTime reports how long the portfolio ran, valid after Race or
// Collect returns.
func (s *PortfolioStats) WallTime() time.Duration { return time.Duration(s.wall.Load()) }

// Race launches one worker per factory and returns the first one to
// produce a solution (found == true). Once a winner is found the
// remaining workers are cancelled via ctx and their results discarded;
// a worker that finds no solution (found == false, err == nil) simply
// drops out of the race without cancelling its siblings.
//
// Race returns found == false only once every worker has exhausted its
// search without success. The first hard error from any worker cancels
// the whole race and is returned, matching errgroup's first-error-wins
// semantics.
func Race[T any](ctx context.Context, stats *PortfolioStats, workers []Worker[T]) (result T, found bool, err error) {
	defer stats.finish()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu  sync.Mutex
		won bool
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		stats.recordLaunch()
		g.Go(func() error {
			r, ok, werr := w(gctx)
			if werr != nil {
				stats.recordFailure()
				return werr
			}
			if !ok {
				stats.recordFailure()
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if !won {
				won = true
				result = r
				found = true
				cancel()
			}
			stats.recordSuccess()
			return nil
		})
	}
	if gerr := g.Wait(); gerr != nil && !found {
		return result, false, gerr
	}
	return result, found, nil
}

// Collect runs every worker to completion (no early cancellation) and
// returns every result that was found, in completion order. It is the
// enumeration-mode counterpart to Race: useful when the caller wants
// every portfolio member's solution rather than just the fastest.
func Collect[T any](ctx context.Context, stats *PortfolioStats, workers []Worker[T]) ([]T, error) {
	defer stats.finish()

	var (
		mu      sync.Mutex
		results []T
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		stats.recordLaunch()
		g.Go(func() error {
			r, ok, werr := w(gctx)
			if werr != nil {
				stats.recordFailure()
				return werr
			}
			if !ok {
				stats.recordFailure()
				return nil
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			stats.recordSuccess()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
