package hashfamily

import (
	"testing"

	"github.com/nmeisburger/Flash/pkg/sparse"
)

func seed(n int64) *int64 { return &n }

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Tables: 0, K: 4, RangePow: 10},
		{Tables: 4, K: 0, RangePow: 10},
		{Tables: 4, K: 4, RangePow: 0},
		{Tables: 4, K: 4, RangePow: 32},
		{Tables: 16, K: 16, RangePow: 4}, // H=256 > 2^4 rows
	}
	for _, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Fatalf("New(%+v) = nil error, want error", cfg)
		}
	}
}

func batchOf(t *testing.T, vectors [][]uint32) *sparse.Batch {
	t.Helper()
	markers := []int{0}
	var indices []uint32
	var values []float32
	for _, v := range vectors {
		indices = append(indices, v...)
		for range v {
			values = append(values, 1.0)
		}
		markers = append(markers, len(indices))
	}
	return &sparse.Batch{Markers: markers, Indices: indices, Values: values}
}

func TestHashRangeInvariant(t *testing.T) {
	f, err := New(Config{Tables: 4, K: 2, RangePow: 8, Seed: seed(7)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	batch := batchOf(t, [][]uint32{{1, 2, 3}, {100, 200}, {7}})
	hashes := f.Hash(batch)

	if len(hashes) != batch.Len()*f.Tables() {
		t.Fatalf("len(hashes) = %d, want %d", len(hashes), batch.Len()*f.Tables())
	}
	rows := uint32(1) << f.RangePow()
	for i, h := range hashes {
		if h >= rows {
			t.Fatalf("hashes[%d] = %d, out of range [0, %d)", i, h, rows)
		}
	}
}

func TestHashIsDeterministic(t *testing.T) {
	cfg := Config{Tables: 8, K: 3, RangePow: 10, Seed: seed(42)}
	f1, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f2, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	batch := batchOf(t, [][]uint32{{5, 9, 12, 800}})
	h1 := f1.Hash(batch)
	h2 := f2.Hash(batch)

	if len(h1) != len(h2) {
		t.Fatalf("length mismatch: %d vs %d", len(h1), len(h2))
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Fatalf("hashes[%d] = %d, want %d (same seed must reproduce construction)", i, h2[i], h1[i])
		}
	}

	// Calling Hash twice against the same family is also a pure function.
	h3 := f1.Hash(batch)
	for i := range h1 {
		if h1[i] != h3[i] {
			t.Fatalf("Hash is not idempotent at %d: %d vs %d", i, h1[i], h3[i])
		}
	}
}

func TestHashWithoutSeedIsUnique(t *testing.T) {
	f1, err := New(Config{Tables: 2, K: 2, RangePow: 6})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f2, err := New(Config{Tables: 2, K: 2, RangePow: 6})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f1.randA == f2.randA && f1.randB == f2.randB {
		t.Fatalf("two unseeded families drew identical randA/randB; crypto/rand source is suspect")
	}
}

func TestDensificationFallback(t *testing.T) {
	f, err := New(Config{Tables: 1, K: 4, RangePow: 6, Seed: seed(11)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A single active feature occupies exactly one bin; every other bin
	// must be filled by densification within MaxDensifyRetry probes, and
	// the resulting compound hash must still land in range.
	batch := batchOf(t, [][]uint32{{42}})
	hashes := f.Hash(batch)

	rows := uint32(1) << f.RangePow()
	for i, h := range hashes {
		if h >= rows {
			t.Fatalf("hashes[%d] = %d, out of range [0, %d)", i, h, rows)
		}
	}
}

func TestTablesAndK(t *testing.T) {
	f, err := New(Config{Tables: 5, K: 3, RangePow: 12, Seed: seed(1)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Tables() != 5 {
		t.Fatalf("Tables() = %d, want 5", f.Tables())
	}
	if f.K() != 3 {
		t.Fatalf("K() = %d, want 3", f.K())
	}
}
