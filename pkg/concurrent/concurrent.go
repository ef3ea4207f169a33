package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each runs action for every element of items in its own goroutine and waits
// for all of them. The first error cancels ctx for the others and is returned.
// limit caps the number of goroutines running at once; limit <= 0 means no cap.
func Each[T any](ctx context.Context, items []T, limit int, action func(ctx context.Context, i int, v T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, v := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return action(gctx, i, v)
		})
	}
	return g.Wait()
}

// Map applies fn to every element in parallel and returns the results in
// input order. It stops at the first error.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, v T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	err := Each(ctx, items, limit, func(ctx context.Context, i int, v T) error {
		r, err := fn(ctx, v)
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
