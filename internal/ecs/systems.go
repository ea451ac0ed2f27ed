package ecs

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minPartition keeps tiny stores on a single goroutine
const minPartition = 64

// Partition splits [0, n) into at most workers contiguous ranges of near-equal size
func Partition(n, workers int) [][2]int {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if limit := (n + minPartition - 1) / minPartition; workers > limit {
		workers = limit
	}

	ranges := make([][2]int, 0, workers)
	size := n / workers
	rem := n % workers
	start := 0
	for w := 0; w < workers; w++ {
		end := start + size
		if w < rem {
			end++
		}
		ranges = append(ranges, [2]int{start, end})
		start = end
	}
	return ranges
}

// ParallelFor runs fn once for every live record of s, fanning slot ranges out over
// workers goroutines. fn must only touch its own record; shared data must be read-only.
func ParallelFor[T any](ctx context.Context, s *Store[T], workers int, fn func(h Handle, v *T)) error {
	ranges := Partition(s.Cap(), workers)
	if len(ranges) <= 1 {
		s.Each(fn)
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range ranges {
		g.Go(func() error {
			for i := r[0]; i < r[1]; i++ {
				if i&0xff == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				h, v, ok := s.At(i)
				if !ok {
					continue
				}
				fn(h, v)
			}
			return nil
		})
	}
	return g.Wait()
}
