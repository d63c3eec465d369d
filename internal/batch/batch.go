// Package batch runs per-repository work on a bounded worker pool.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc is told how many of total items have finished.
type ProgressFunc func(done, total int)

type progressKey struct{}

// WithProgress attaches fn to ctx; Run reports to it after every item.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFrom(ctx context.Context) ProgressFunc {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		return fn
	}
	return func(int, int) {}
}

// Run calls fn for every item with at most limit calls in flight and
// returns the results in input order. A limit below 1 runs sequentially.
//
// fn reports failures through its result; one item failing never cancels
// the others. Cancelling ctx is left to fn (git calls observe it).
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	report := progressFrom(ctx)
	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)

			mu.Lock()
			done++
			report(done, len(items))
			mu.Unlock()
			return nil // results carry per-item errors
		})
	}

	_ = g.Wait() // Always nil

	return results
}
