// Package reservoir is FLASH's inverted-index storage layer: L flat
// tables of 2^range_pow reservoir-sampled rows, each accumulating up to R
// vector IDs per bucket via a precomputed rand_values table instead of a
// per-insert RNG draw. See original_source/src/lsh.rs, whose LSH/
// QueryResult types this package is a bit-compatible transliteration of.
package reservoir

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/nmeisburger/Flash/internal/detrand"
)

// emptySlot is the sentinel marking an unfilled reservoir slot, matching
// the reference's IDType::MAX.
const emptySlot = math.MaxUint32

// randValuesFactor sets the rand_values table to reservoirSize*20 rows,
// matching the reference's fixed allocation.
const randValuesFactor = 20

// Config configures an Index.
type Config struct {
	Tables        int    // L
	RangePow      uint32 // rows = 2^RangePow
	ReservoirSize int    // R

	// Seed, if non-nil, makes rand_values reproducible instead of drawing
	// from crypto/rand.
	Seed *int64
}

// Index is the reservoir-sampled inverted index: L tables, each with
// 2^range_pow rows, each row holding an occupancy counter followed by up
// to R candidate IDs.
type Index struct {
	tables        int
	rows          int
	reservoirSize int
	rowSize       int // reservoirSize + 1
	tableSize     int // rows * rowSize

	data []uint32

	// randValues[c] is the reservoir slot index drawn, at construction
	// time, for the c-th insert into a row — precomputed so Insert never
	// calls into an RNG. Per spec.md §9's resolved Open Question, entries
	// are drawn from [0, c), not [0, c+1): this reproduces the reference
	// implementation's off-by-one rather than "fixing" it, since query
	// results must stay bit-compatible with existing deployments.
	randValues []uint32

	mu sync.RWMutex
}

// New validates cfg, allocates the flat storage buffer, and draws
// rand_values.
func New(cfg Config) (*Index, error) {
	if cfg.Tables <= 0 {
		return nil, wrapConfig("reservoir.New", ErrZeroTables)
	}
	if cfg.ReservoirSize <= 0 {
		return nil, wrapConfig("reservoir.New", ErrZeroReservoir)
	}
	if cfg.RangePow < 1 || cfg.RangePow > 31 {
		return nil, wrapConfig("reservoir.New", ErrRangePow)
	}

	rows := 1 << cfg.RangePow
	rowSize := cfg.ReservoirSize + 1
	tableSize := rows * rowSize

	idx := &Index{
		tables:        cfg.Tables,
		rows:          rows,
		reservoirSize: cfg.ReservoirSize,
		rowSize:       rowSize,
		tableSize:     tableSize,
		data:          make([]uint32, cfg.Tables*tableSize),
		randValues:    drawRandValues(cfg.ReservoirSize, cfg.Seed),
	}

	for i := range idx.data {
		idx.data[i] = emptySlot
	}
	for t := 0; t < idx.tables; t++ {
		for r := 0; r < idx.rows; r++ {
			idx.data[t*idx.tableSize+r*idx.rowSize] = 0
		}
	}

	return idx, nil
}

func drawRandValues(reservoirSize int, seed *int64) []uint32 {
	n := reservoirSize * randValuesFactor
	vals := make([]uint32, n)
	if n == 0 {
		return vals
	}
	draws := detrand.Words(n, seed)
	for i := 1; i < n; i++ {
		vals[i] = draws[i] % uint32(i)
	}
	return vals
}

// Tables reports L.
func (idx *Index) Tables() int { return idx.tables }

// Rows reports the per-table row count, 2^range_pow.
func (idx *Index) Rows() int { return idx.rows }

// ReservoirSize reports R, the per-row candidate capacity.
func (idx *Index) ReservoirSize() int { return idx.reservoirSize }

// OverrideRandValues replaces the rand_values table, for deterministic
// tests that need to force specific reservoir-eviction decisions. vals
// must have length ReservoirSize()*20.
func (idx *Index) OverrideRandValues(vals []uint32) error {
	want := idx.reservoirSize * randValuesFactor
	if len(vals) != want {
		return wrapConfig("reservoir.OverrideRandValues", &BoundsError{Rows: want})
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	copy(idx.randValues, vals)
	return nil
}

// Insert adds len(ids) vectors into the index, single-writer style: the
// caller must not call Insert, InsertRange, or InsertPartitioned
// concurrently with this call (spec.md §5 — insert is single-writer by
// default). hashes holds tables() hashes per vector, vector n's hashes at
// hashes[n*tables : n*tables+tables].
func (idx *Index) Insert(ids []uint32, hashes []uint32) {
	for n, id := range ids {
		idx.insertOne(id, hashes[n*idx.tables:(n+1)*idx.tables])
	}
}

// InsertRange is Insert for a contiguous block of ids (idStart,
// idStart+1, ..., idStart+n-1), avoiding an explicit ids slice. Produces
// byte-identical storage to the equivalent Insert call.
func (idx *Index) InsertRange(idStart uint32, n int, hashes []uint32) {
	for i := 0; i < n; i++ {
		idx.insertOne(idStart+uint32(i), hashes[i*idx.tables:(i+1)*idx.tables])
	}
}

func (idx *Index) insertOne(id uint32, hashes []uint32) {
	for t := 0; t < idx.tables; t++ {
		row := idx.checkRow(t, hashes[t])
		offset := t*idx.tableSize + row*idx.rowSize
		count := int(idx.data[offset])
		idx.data[offset]++

		if count < idx.reservoirSize {
			idx.data[offset+count+1] = id
			continue
		}
		r := idx.randValueAt(count)
		if r < idx.reservoirSize {
			idx.data[offset+1+r] = id
		}
	}
}

// InsertPartitioned is the concurrent-writer counterpart of Insert: safe
// to call from multiple goroutines at once, each owning a disjoint slice
// of ids/hashes, per spec.md §5's "partitioned-writer using atomics"
// option. Two inserts landing in the very same row of the very same
// table at the same instant may race on which one wins the reservoir
// slot; the occupancy counter itself never loses an update.
func (idx *Index) InsertPartitioned(ids []uint32, hashes []uint32) {
	for n, id := range ids {
		rowHashes := hashes[n*idx.tables : (n+1)*idx.tables]
		for t := 0; t < idx.tables; t++ {
			row := idx.checkRow(t, rowHashes[t])
			offset := t*idx.tableSize + row*idx.rowSize
			count := int(atomic.AddUint32(&idx.data[offset], 1)) - 1

			if count < idx.reservoirSize {
				atomic.StoreUint32(&idx.data[offset+count+1], id)
				continue
			}
			r := idx.randValueAt(count)
			if r < idx.reservoirSize {
				atomic.StoreUint32(&idx.data[offset+1+r], id)
			}
		}
	}
}

// checkRow validates that hash names a row within table t's bounds and
// returns it as an int, panicking with *BoundsError otherwise — the same
// contract Go's own slice-bounds panics establish, but naming which table
// and row misbehaved instead of an opaque runtime index-out-of-range.
// A bad row means the caller (the orchestrator's HashFamily) produced a
// hash outside [0, 2^range_pow), an invariant violation rather than a
// recoverable condition, so this is not a returned error.
func (idx *Index) checkRow(t int, hash uint32) int {
	row := int(hash)
	if row < 0 || row >= idx.rows {
		panic(&BoundsError{Table: t, Row: row, Rows: idx.rows})
	}
	return row
}

// randValueAt returns the reservoir slot drawn for the count-th insert
// into a row. Beyond the precomputed table's reservoirSize*20 entries —
// a row that has absorbed an extreme number of collisions — the index
// falls back to count % len(randValues) rather than growing the table or
// panicking, trading exact uniformity for a bounded, deterministic
// approximation (see SPEC_FULL.md).
func (idx *Index) randValueAt(count int) int {
	n := len(idx.randValues)
	if count < n {
		return int(idx.randValues[count])
	}
	return int(idx.randValues[count%n])
}

// Query returns, for each of hashes's vectors, up to k candidate IDs
// ranked by how many of the L tables agreed on them. Ties are broken by
// ascending ID for determinism; the reference implementation leaves
// ties unspecified. Query never mutates the index and is safe to call
// concurrently with other Query calls (spec.md §5).
func (idx *Index) Query(hashes []uint32, k int) *QueryResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	numQueries := len(hashes) / idx.tables
	buf := make([]uint32, numQueries*(k+1))

	counts := make(map[uint32]int, idx.reservoirSize*idx.tables)
	for q := 0; q < numQueries; q++ {
		for id := range counts {
			delete(counts, id)
		}

		rowHashes := hashes[q*idx.tables : (q+1)*idx.tables]
		for t := 0; t < idx.tables; t++ {
			row := idx.checkRow(t, rowHashes[t])
			offset := t*idx.tableSize + row*idx.rowSize
			n := int(idx.data[offset])
			if n > idx.reservoirSize {
				n = idx.reservoirSize
			}
			for i := 1; i <= n; i++ {
				counts[idx.data[offset+i]]++
			}
		}

		top := rankByVotes(counts, k)
		start := q * (k + 1)
		buf[start] = uint32(len(top))
		for i, id := range top {
			buf[start+1+i] = id
		}
	}

	return NewQueryResult(buf, numQueries, k)
}
