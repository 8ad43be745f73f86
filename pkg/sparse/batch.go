// Package sparse provides the CSR-style sparse-vector view consumed by
// the hash-index core, and a decoder for the LIBSVM-style text format
// FLASH corpora ship in.
package sparse

import "fmt"

// Batch is a read-only, CSR-like view over N sparse vectors. Vector n
// occupies Indices[Markers[n]:Markers[n+1]] with parallel Values.
//
// The hash-index core (hashfamily, reservoir) reads only Indices; Values
// is carried solely for downstream consumers such as pkg/evaluator.
type Batch struct {
	Markers []int
	Indices []uint32
	Values  []float32
}

// Len returns the number of vectors in the batch.
func (b *Batch) Len() int {
	if len(b.Markers) == 0 {
		return 0
	}
	return len(b.Markers) - 1
}

// Features returns the active feature indices of vector n.
func (b *Batch) Features(n int) []uint32 {
	return b.Indices[b.Markers[n]:b.Markers[n+1]]
}

// Weights returns the feature weights of vector n, parallel to Features(n).
func (b *Batch) Weights(n int) []float32 {
	return b.Values[b.Markers[n]:b.Markers[n+1]]
}

// Validate checks internal consistency of the batch's offset table.
func (b *Batch) Validate() error {
	if len(b.Markers) == 0 {
		return fmt.Errorf("sparse: batch has no markers")
	}
	if len(b.Values) != len(b.Indices) {
		return fmt.Errorf("sparse: values length %d does not match indices length %d", len(b.Values), len(b.Indices))
	}
	prev := b.Markers[0]
	if prev != 0 {
		return fmt.Errorf("sparse: markers[0] = %d, want 0", prev)
	}
	for i := 1; i < len(b.Markers); i++ {
		if b.Markers[i] < prev {
			return fmt.Errorf("sparse: markers not monotonic at %d: %d < %d", i, b.Markers[i], prev)
		}
		prev = b.Markers[i]
	}
	if prev != len(b.Indices) {
		return fmt.Errorf("sparse: markers[last] = %d, want %d", prev, len(b.Indices))
	}
	return nil
}

// Slice returns the sub-batch covering vectors [start, end).
func (b *Batch) Slice(start, end int) *Batch {
	return &Batch{
		Markers: b.Markers[start : end+1],
		Indices: b.Indices,
		Values:  b.Values,
	}
}

// Concat joins batches into one, renumbering markers so the result's
// vector i corresponds to the i-th vector across all inputs in order.
// Used to give a corpus batch and a held-out query batch a shared
// absolute index space, e.g. for pkg/evaluator scoring.
func Concat(batches ...*Batch) *Batch {
	out := &Batch{Markers: []int{0}}
	for _, b := range batches {
		first, last := b.Markers[0], b.Markers[len(b.Markers)-1]
		out.Indices = append(out.Indices, b.Indices[first:last]...)
		out.Values = append(out.Values, b.Values[first:last]...)
		base := out.Markers[len(out.Markers)-1] - first
		for _, m := range b.Markers[1:] {
			out.Markers = append(out.Markers, base+m)
		}
	}
	return out
}
