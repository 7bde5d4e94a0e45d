// Package stream provides an order-preserving parallel map for CPU-bound
// page processing. Results are emitted in input order, so a parallel run
// produces byte-identical output to the sequential one.
package stream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type indexed[T any] struct {
	idx int
	val T
}

// OrderedMap reads items from in, applies fn on up to workers goroutines,
// and calls emit with the results in input order. The first error from fn
// or emit cancels the whole run and is returned. With workers <= 1 the map
// degenerates to a plain sequential loop.
func OrderedMap[In, Out any](ctx context.Context, workers int, in <-chan In, fn func(In) (Out, error), emit func(Out) error) error {
	if workers <= 1 {
		for v := range in {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := fn(v)
			if err != nil {
				return err
			}
			if err := emit(out); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan indexed[In])
	results := make(chan indexed[Out], workers)

	g.Go(func() error {
		defer close(jobs)
		idx := 0
		for v := range in {
			select {
			case jobs <- indexed[In]{idx: idx, val: v}:
				idx++
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workerGrp, wctx := errgroup.WithContext(gctx)
	for range workers {
		workerGrp.Go(func() error {
			for job := range jobs {
				out, err := fn(job.val)
				if err != nil {
					return err
				}
				select {
				case results <- indexed[Out]{idx: job.idx, val: out}:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(results)
		return workerGrp.Wait()
	})

	g.Go(func() error {
		// Reassembly buffer keyed by input position.
		pending := make(map[int]Out)
		next := 0
		for r := range results {
			pending[r.idx] = r.val
			for {
				out, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := emit(out); err != nil {
					return err
				}
				next++
			}
		}
		return nil
	})

	return g.Wait()
}
