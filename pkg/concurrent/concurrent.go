package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies mapFn to every element with at most workers goroutines,
// preserving order. A workers value below one runs everything on the calling
// goroutine. The first error cancels the derived context and is returned.
func ParallelMap[T any, R any](ctx context.Context, in []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	if workers < 1 {
		for idx, v := range in {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := mapFn(ctx, v)
			if err != nil {
				return nil, err
			}
			out[idx] = r
		}
		return out, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for idx, val := range in {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			r, err := mapFn(groupCtx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach runs action for every element with at most workers goroutines and
// returns the first error.
func ForEach[T any](ctx context.Context, in []T, workers int, action func(context.Context, T) error) error {
	_, err := ParallelMap(ctx, in, workers, func(ctx context.Context, v T) (struct{}, error) {
		return struct{}{}, action(ctx, v)
	})
	return err
}
