package flash

// LSHConfig configures the hash family and reservoir index wired
// together by New. Field names mirror original_source/src/config.rs's
// LSHConfig (tables/k/range_pow/reservoir_size).
type LSHConfig struct {
	Tables        int // L
	K             int // sub-hashes per table
	RangePow      uint32
	ReservoirSize int // R

	// Seed, if non-nil, makes both the hash family and the reservoir's
	// rand_values table reproducible, for testing.
	Seed *int64
}

// DataConfig names the corpus a preset run ingests and queries, mirroring
// original_source/src/config.rs's DataConfig.
type DataConfig struct {
	Filename string
	AvgDim   int
	NumData  int
	NumQuery int
}

// Config is a complete named run: how to build the index (LSH) and what
// to run it against (Data), plus the candidate counts for query and
// evaluation. Mirrors original_source/src/config.rs's top-level Config.
type Config struct {
	LSH  LSHConfig
	Data DataConfig

	// TopK bounds Index.QueryBatch's returned candidates per query.
	TopK int

	// SimK, if positive, bounds how many of each query's top candidates
	// pkg/evaluator.AverageCosineSimilarity scores. 0 disables evaluation.
	SimK int

	// Workers, if positive, bounds how many goroutines InsertBatch/
	// QueryBatch/Hash fan out across. 0 runs sequentially.
	Workers int
}
