// Package hashfamily implements DOPH — densified one-permutation hashing
// — the stateless-after-construction hash family FLASH uses to map a
// sparse vector to L compound bucket identifiers. See
// original_source/src/doph.rs for the reference algorithm this package is
// a bit-compatible transliteration of.
package hashfamily

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/nmeisburger/Flash/internal/logx"
	"github.com/nmeisburger/Flash/pkg/sparse"
)

// MaxDensifyRetry bounds the densification probe loop (spec.md §4.1
// stage 2). A bin that is still empty after this many probes is set to 0
// and a DensificationFallback diagnostic is logged.
const MaxDensifyRetry = 100

const densifyMultiplier = 0x85ebca6b

// Config configures a Family. It mirrors original_source/src/config.rs's
// LSHConfig, generalized with an optional reproducibility seed (spec.md
// §4.1: "must be reproducible given an optional seed argument").
type Config struct {
	Tables   int  // L
	K        int  // sub-hashes concatenated per table
	RangePow uint32 // row-count exponent; rows = 2^RangePow

	// Seed, if non-nil, makes construction reproducible: seeds and randA/
	// randB are expanded deterministically from it instead of crypto/rand.
	Seed *int64

	// Logger receives DensificationFallback diagnostics. Defaults to a
	// no-op logger.
	Logger logx.Logger
}

// Family is DOPH's hash function: immutable after New, safe for
// concurrent use by any number of callers (spec.md §5 — "the hash family
// holds no mutable state").
type Family struct {
	l, k       int
	numHashes  uint32
	rangePow   uint32
	logNumHash uint32
	binSize    uint32

	seeds        []uint32
	randA, randB uint32

	logger           logx.Logger
	densifyFallbacks uint64 // atomic; diagnostic only, does not affect Hash's output
}

// New validates cfg and draws the seed table. On invalid configuration it
// returns an error wrapping one of the sentinel Err... vars.
func New(cfg Config) (*Family, error) {
	if cfg.Tables <= 0 {
		return nil, wrapConfig("hashfamily.New", ErrZeroTables)
	}
	if cfg.K <= 0 {
		return nil, wrapConfig("hashfamily.New", ErrZeroHashFuncs)
	}
	if cfg.RangePow < 1 || cfg.RangePow > 31 {
		return nil, wrapConfig("hashfamily.New", ErrRangePow)
	}

	h := uint32(cfg.Tables * cfg.K)
	rows := uint32(1) << cfg.RangePow
	if h > rows {
		return nil, wrapConfig("hashfamily.New", ErrRangeTooSmall)
	}

	logNumHash := uint32(1)
	for logNumHash*2 < h {
		logNumHash *= 2
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	words := seedWords(int(h)+2, cfg.Seed)

	return &Family{
		l:          cfg.Tables,
		k:          cfg.K,
		numHashes:  h,
		rangePow:   cfg.RangePow,
		logNumHash: logNumHash,
		binSize:    rows / h,
		seeds:      words[:h],
		randA:      words[h],
		randB:      words[h+1],
		logger:     logger,
	}, nil
}

// DensificationFailures returns the number of bins that exhausted
// MaxDensifyRetry probes across all Hash calls so far.
func (f *Family) DensificationFailures() uint64 {
	return atomic.LoadUint64(&f.densifyFallbacks)
}

// Hash maps every vector in batch to f.Tables() compound bucket IDs,
// returning a flat array of length batch.Len() * f.Tables() with vector
// n's hashes at out[n*L : n*L+L]. Hash is a pure function of f and
// batch's feature indices; it is safe to call concurrently over disjoint
// batches, and calling it twice on the same batch yields byte-identical
// output.
func (f *Family) Hash(batch *sparse.Batch) []uint32 {
	n := batch.Len()
	out := make([]uint32, n*f.l)

	minHashes := make([]uint32, f.numHashes)
	hashes := make([]uint32, f.numHashes)

	for v := 0; v < n; v++ {
		for i := range minHashes {
			minHashes[i] = math.MaxUint32
		}

		// Stage 1: bin min-hash.
		for _, feat := range batch.Features(v) {
			h := feat * f.randA
			h ^= h >> 13
			h *= densifyMultiplier
			final := (h * feat) << 5
			final = shr32(final, 32-f.rangePow)

			bin := final / f.binSize
			if bin >= f.numHashes {
				bin = f.numHashes - 1
			}
			if final < minHashes[bin] {
				minHashes[bin] = final
			}
		}

		// Stage 2: densification.
		for i := uint32(0); i < f.numHashes; i++ {
			next := minHashes[i]
			if next != math.MaxUint32 {
				hashes[i] = next
				continue
			}

			var cnt uint32
			for next == math.MaxUint32 {
				cnt++
				idx := f.randHash(i, cnt)
				if idx > f.numHashes-1 {
					idx = f.numHashes - 1
				}
				next = minHashes[idx]
				if next == math.MaxUint32 && cnt >= MaxDensifyRetry {
					next = 0
					f.reportDensifyFallback(i)
					break
				}
			}
			hashes[i] = next
		}

		// Stage 3: compound hash.
		for t := 0; t < f.l; t++ {
			var idx uint32
			for i := 0; i < f.k; i++ {
				val := hashes[t*f.k+i]
				seed := f.seeds[t*f.k+i]
				h := val * seed
				h ^= h >> 13
				h ^= seed
				idx += h * val
			}
			idx = shr32(idx<<2, 32-f.rangePow)
			out[v*f.l+t] = idx
		}
	}

	return out
}

// randHash is the deterministic probe sequence used to fill empty bins
// during densification (spec.md §4.1 stage 2).
func (f *Family) randHash(bin, cnt uint32) uint32 {
	temp := ((bin + 1) << 10) + cnt
	return shr32(f.randB*temp<<3, 32-f.logNumHash)
}

func (f *Family) reportDensifyFallback(bin uint32) {
	atomic.AddUint64(&f.densifyFallbacks, 1)
	f.logger.Warn("Densification Failure", "bin", bin, "retries", MaxDensifyRetry)
}

// Tables reports L, the number of hash tables a Hash call produces per
// vector.
func (f *Family) Tables() int { return f.l }

// K reports the number of sub-hashes combined per table.
func (f *Family) K() int { return f.k }

// RangePow reports the row-count exponent: row count is 2^RangePow.
func (f *Family) RangePow() uint32 { return f.rangePow }

// shr32 is a hardware-style masked right shift: the shift count is taken
// modulo 32, matching the wrapping/masked shift semantics spec.md §9
// requires ("Explicit wrapping_mul/wrapping_shl ... is required") instead
// of Go's native arbitrary-shift-count behavior, so results stay
// bit-compatible with the reference even for degenerate configurations
// where 32-log_num_hash would otherwise underflow.
func shr32(x, n uint32) uint32 { return x >> (n & 31) }

func wrapConfig(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
