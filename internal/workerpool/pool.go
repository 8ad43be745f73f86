// Package workerpool is the fixed-size executor spec.md §5 calls for:
// "a fixed-size worker pool of OS threads executing independent tasks."
// It is the Go analogue of original_source/src/thread_pool.rs's
// ThreadPool/TaskPool, built on golang.org/x/sync/errgroup instead of a
// hand-rolled channel-and-join-handle bookkeeping layer.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of tasks running concurrently. A Pool has no
// state beyond its size — it owns no buffers; the core packages it
// drives (hashfamily, reservoir) remain unaware of it.
type Pool struct {
	size int
}

// New returns a Pool that runs at most size tasks concurrently. size <= 0
// means "unbounded" (errgroup.Group's default).
func New(size int) *Pool {
	return &Pool{size: size}
}

// Size reports the configured concurrency bound.
func (p *Pool) Size() int { return p.size }

// Run executes fns concurrently, bounded by the pool's size, and returns
// the first error encountered (if any). The context passed to each fn is
// cancelled as soon as any fn returns an error. Run blocks until every fn
// has returned, matching ThreadPool's join-style contract.
func (p *Pool) Run(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.size > 0 {
		g.SetLimit(p.size)
	}
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// Partition splits [0, n) into at most parts contiguous, near-equal
// ranges, skipping empty ranges when n < parts. Used by flash.Index to
// hand each worker a disjoint contiguous slice of a batch (hashing) or a
// disjoint contiguous ID range (partitioned insert), per spec.md §5.
func Partition(n, parts int) [][2]int {
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	if parts <= 1 {
		if n == 0 {
			return nil
		}
		return [][2]int{{0, n}}
	}

	ranges := make([][2]int, 0, parts)
	base := n / parts
	rem := n % parts
	start := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		ranges = append(ranges, [2]int{start, start + size})
		start += size
	}
	return ranges
}
