package main

import "github.com/nmeisburger/Flash"

// presets mirrors original_source/src/main.rs's TEST_CONFIG: named,
// hardcoded Config values selected by the CLI's first positional
// argument. "test" is carried over as a placeholder (the reference's own
// TEST_CONFIG has tables/k/range_pow/reservoir_size all zero, which
// flash.New rejects) so that `flash test` fails the same way the
// original's argv dispatch does for an unconfigured preset, rather than
// silently running with degenerate parameters.
var presets = map[string]flash.Config{
	"test": {
		LSH: flash.LSHConfig{
			Tables:        0,
			K:             0,
			RangePow:      0,
			ReservoirSize: 0,
		},
		Data: flash.DataConfig{
			Filename: "",
			AvgDim:   0,
			NumData:  0,
			NumQuery: 0,
		},
		TopK: 0,
	},

	"small": {
		LSH: flash.LSHConfig{
			Tables:        8,
			K:             4,
			RangePow:      10,
			ReservoirSize: 16,
		},
		Data: flash.DataConfig{
			Filename: "data.svm",
			AvgDim:   32,
			NumData:  10000,
			NumQuery: 1000,
		},
		TopK: 10,
		SimK: 5,
		Workers: 4,
	},

	"large": {
		LSH: flash.LSHConfig{
			Tables:        16,
			K:             6,
			RangePow:      14,
			ReservoirSize: 64,
		},
		Data: flash.DataConfig{
			Filename: "data.svm",
			AvgDim:   128,
			NumData:  1000000,
			NumQuery: 10000,
		},
		TopK:    20,
		SimK:    10,
		Workers: 16,
	},
}
