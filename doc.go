// FLASH is an approximate-nearest-neighbor index for sparse vectors: it
// hashes each vector with a densified one-permutation hash family (DOPH)
// and accumulates the resulting bucket memberships into reservoir-sampled
// inverted index tables, then answers top-k queries by tallying how many
// tables agree on each candidate.
//
// The root package wires pkg/hashfamily and pkg/reservoir into a single
// ingest-then-query Index; pkg/sparse decodes the LIBSVM-style corpus
// format; pkg/evaluator scores query results by cosine similarity; and
// cmd/flash drives named configuration presets end to end.
package flash
