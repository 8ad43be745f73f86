package reservoir

import "sort"

// QueryResult holds the flat (k+1)-stride candidate buffer produced by
// Index.Query: query q's slot count is at data[q*(k+1)], followed by up
// to k candidate IDs, matching original_source/src/lsh.rs's QueryResult
// layout.
type QueryResult struct {
	data       []uint32
	k          int
	numQueries int
}

// NewQueryResult wraps an existing flat (k+1)-stride buffer as a
// QueryResult, for callers that decode one from storage rather than
// obtaining it fresh from Index.Query.
func NewQueryResult(data []uint32, numQueries, k int) *QueryResult {
	return &QueryResult{data: data, k: k, numQueries: numQueries}
}

// NumQueries reports how many query vectors this result covers.
func (r *QueryResult) NumQueries() int { return r.numQueries }

// Count reports how many candidates query q returned (0..k).
func (r *QueryResult) Count(q int) int {
	return int(r.data[q*(r.k+1)])
}

// Candidates returns query q's candidate IDs, ranked highest-voted
// first. The returned slice aliases the result's internal buffer and
// must not be modified.
func (r *QueryResult) Candidates(q int) []uint32 {
	start := q*(r.k+1) + 1
	n := r.Count(q)
	return r.data[start : start+n]
}

// All iterates query q's candidates as (rank, id) pairs, the range-over-
// func counterpart of Candidates for callers that want to avoid slicing.
func (r *QueryResult) All(q int) func(yield func(int, uint32) bool) {
	return func(yield func(int, uint32) bool) {
		for i, id := range r.Candidates(q) {
			if !yield(i, id) {
				return
			}
		}
	}
}

// rankByVotes sorts counts' (id, votes) pairs by descending votes,
// breaking ties by ascending id for determinism, and returns at most the
// top k ids. The reference implementation leaves ties to Rust's
// HashMap iteration order, which is unspecified; this package makes the
// same ranking reproducible instead.
func rankByVotes(counts map[uint32]int, k int) []uint32 {
	type vote struct {
		id    uint32
		count int
	}
	votes := make([]vote, 0, len(counts))
	for id, c := range counts {
		votes = append(votes, vote{id, c})
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].count != votes[j].count {
			return votes[i].count > votes[j].count
		}
		return votes[i].id < votes[j].id
	})

	n := k
	if len(votes) < n {
		n = len(votes)
	}
	top := make([]uint32, n)
	for i := 0; i < n; i++ {
		top[i] = votes[i].id
	}
	return top
}
