// Package flash wires a hashfamily.Family and a reservoir.Index into a
// single ingest-then-query pipeline: assign monotonic IDs to incoming
// vectors, hash them, insert the hashes, and later hash query vectors the
// same way to retrieve top-k candidates. Mirrors the ingest→query
// pipeline order of original_source/src/main.rs, generalized from one
// hardcoded run into a reusable, concurrency-aware orchestrator.
package flash

import (
	"context"
	"sync/atomic"

	"github.com/nmeisburger/Flash/internal/logx"
	"github.com/nmeisburger/Flash/internal/workerpool"
	"github.com/nmeisburger/Flash/pkg/hashfamily"
	"github.com/nmeisburger/Flash/pkg/reservoir"
	"github.com/nmeisburger/Flash/pkg/sparse"
)

// Index is FLASH's orchestrator: a HashFamily and a ReservoirIndex built
// from the same (tables, range_pow) parameters, plus a monotonic ID
// counter for InsertBatch. Per spec.md §5, the hash family is safe for
// unlimited concurrent callers; Query is read-only/parallel-safe;
// InsertBatch defaults to a single-writer discipline unless Config.
// Workers selects the partitioned-writer path.
type Index struct {
	family *hashfamily.Family
	store  *reservoir.Index
	pool   *workerpool.Pool
	logger logx.Logger

	topK   int
	simK   int
	nextID atomic.Uint32
}

// Stats summarizes an Index's configuration and accumulated state, for
// diagnostics and the CLI's "done" report.
type Stats struct {
	Tables                int
	Rows                  int
	ReservoirSize         int
	TotalInserted         uint32
	DensificationFailures uint64
}

// New validates cfg and wires a Family and a reservoir.Index from its
// LSH sub-config. Returns a *ParameterError on invalid configuration.
func New(cfg Config, logger logx.Logger) (*Index, error) {
	if cfg.TopK <= 0 {
		return nil, wrapParamError("flash.New", ErrZeroTopK)
	}
	if logger == nil {
		logger = logx.Nop()
	}

	family, err := hashfamily.New(hashfamily.Config{
		Tables:   cfg.LSH.Tables,
		K:        cfg.LSH.K,
		RangePow: cfg.LSH.RangePow,
		Seed:     cfg.LSH.Seed,
		Logger:   logger,
	})
	if err != nil {
		return nil, wrapParamError("flash.New", err)
	}

	store, err := reservoir.New(reservoir.Config{
		Tables:        cfg.LSH.Tables,
		RangePow:      cfg.LSH.RangePow,
		ReservoirSize: cfg.LSH.ReservoirSize,
		Seed:          cfg.LSH.Seed,
	})
	if err != nil {
		return nil, wrapParamError("flash.New", err)
	}

	var pool *workerpool.Pool
	if cfg.Workers > 0 {
		pool = workerpool.New(cfg.Workers)
	}

	return &Index{
		family: family,
		store:  store,
		pool:   pool,
		logger: logger,
		topK:   cfg.TopK,
		simK:   cfg.SimK,
	}, nil
}

// InsertBatch assigns batch.Len() consecutive IDs starting from the
// index's internal counter, hashes every vector, and inserts the
// results. Returns the first assigned ID; subsequent vectors in the
// batch take consecutive IDs after it.
func (idx *Index) InsertBatch(batch *sparse.Batch) uint32 {
	n := uint32(batch.Len())
	idStart := idx.nextID.Add(n) - n

	hashes := idx.hashBatch(batch)

	if idx.pool == nil || idx.pool.Size() <= 1 {
		idx.store.InsertRange(idStart, batch.Len(), hashes)
		return idStart
	}

	l := idx.family.Tables()
	ranges := workerpool.Partition(batch.Len(), idx.pool.Size())
	tasks := make([]func(context.Context) error, len(ranges))
	for i, rg := range ranges {
		start, end := rg[0], rg[1]
		tasks[i] = func(context.Context) error {
			n := end - start
			ids := contiguousIDs(idStart+uint32(start), n)
			idx.store.InsertPartitioned(ids, hashes[start*l:end*l])
			return nil
		}
	}
	// Insert errors never occur in this path (no I/O, no cancellation);
	// the pool's error plumbing exists for the hashBatch fan-out and for
	// future stages, so it is threaded through here for consistency.
	_ = idx.pool.Run(context.Background(), tasks...)
	return idStart
}

// QueryBatch hashes every vector in batch and returns its top-k
// candidates per vector, k taken from the Index's configured TopK.
func (idx *Index) QueryBatch(batch *sparse.Batch) *reservoir.QueryResult {
	hashes := idx.hashBatch(batch)
	return idx.store.Query(hashes, idx.topK)
}

// hashBatch runs Family.Hash, splitting the batch across the worker pool
// when one is configured and the batch is large enough to be worth
// splitting. Family.Hash has no shared state, so each partition's slice
// of the batch can be hashed concurrently and written into disjoint
// regions of a single output slice without locking.
func (idx *Index) hashBatch(batch *sparse.Batch) []uint32 {
	if idx.pool == nil || idx.pool.Size() <= 1 || batch.Len() < idx.pool.Size() {
		return idx.family.Hash(batch)
	}

	l := idx.family.Tables()
	out := make([]uint32, batch.Len()*l)
	ranges := workerpool.Partition(batch.Len(), idx.pool.Size())

	tasks := make([]func(context.Context) error, len(ranges))
	for i, rg := range ranges {
		start, end := rg[0], rg[1]
		tasks[i] = func(context.Context) error {
			part := idx.family.Hash(batch.Slice(start, end))
			copy(out[start*l:end*l], part)
			return nil
		}
	}
	_ = idx.pool.Run(context.Background(), tasks...)
	return out
}

// Stats reports the index's current configuration and accumulated
// counters.
func (idx *Index) Stats() Stats {
	return Stats{
		Tables:                idx.store.Tables(),
		Rows:                  idx.store.Rows(),
		ReservoirSize:         idx.store.ReservoirSize(),
		TotalInserted:         idx.nextID.Load(),
		DensificationFailures: idx.family.DensificationFailures(),
	}
}

// SimK reports the configured evaluation candidate cap (0 means
// evaluation is disabled).
func (idx *Index) SimK() int { return idx.simK }

func contiguousIDs(start uint32, n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = start + uint32(i)
	}
	return ids
}
