package hashfamily

import "github.com/nmeisburger/Flash/internal/detrand"

// seedWords produces the H compound-hash seeds plus randA/randB. With
// seed == nil the words come from crypto/rand; with a seed, construction
// is reproducible, per spec.md §4.1.
func seedWords(n int, seed *int64) []uint32 {
	return detrand.Words(n, seed)
}
