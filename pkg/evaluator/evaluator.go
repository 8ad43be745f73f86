// Package evaluator scores FLASH query results by averaging cosine
// similarity between each query vector and its top-k
// returned candidates. Grounded on
// original_source/src/evaluate.rs's sparse_multiply/magnitude/
// average_cosine_similarity, which compute cosine similarity directly
// over two vectors' CSR slices rather than materializing dense vectors.
package evaluator

import (
	"math"

	"github.com/nmeisburger/Flash/pkg/reservoir"
	"github.com/nmeisburger/Flash/pkg/sparse"
)

// AverageCosineSimilarity scores queryCount queries starting at
// queryStart in data against their corresponding entries in results
// (result i corresponds to data vector queryStart+i). For each query it
// considers at most k candidates — a cap independent of, and possibly
// smaller than, the k the index was originally queried with — and
// averages cosine similarity across every (query, candidate) pair
// examined. Returns 0 if no candidates were found at all.
func AverageCosineSimilarity(data *sparse.Batch, queryStart, queryCount int, results *reservoir.QueryResult, k int) float32 {
	var total float32
	var count int

	for i := 0; i < queryCount; i++ {
		q := queryStart + i
		candidates := results.Candidates(i)
		if len(candidates) > k {
			candidates = candidates[:k]
		}
		for _, r := range candidates {
			sim := sparseDot(q, int(r), data) / (magnitude(q, data) * magnitude(int(r), data))
			total += sim
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return total / float32(count)
}

// sparseDot computes the dot product of vectors a and b via a
// sorted-merge walk over their CSR feature indices, relying on
// sparse.Batch.Features returning indices in ascending order per vector.
func sparseDot(a, b int, data *sparse.Batch) float32 {
	af, aw := data.Features(a), data.Weights(a)
	bf, bw := data.Features(b), data.Weights(b)

	var total float32
	var ia, ib int
	for ia < len(af) && ib < len(bf) {
		switch {
		case af[ia] == bf[ib]:
			total += aw[ia] * bw[ib]
			ia++
			ib++
		case af[ia] < bf[ib]:
			ia++
		default:
			ib++
		}
	}
	return total
}

func magnitude(x int, data *sparse.Batch) float32 {
	var total float32
	for _, w := range data.Weights(x) {
		total += w * w
	}
	return float32(math.Sqrt(float64(total)))
}
