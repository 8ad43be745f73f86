// Command flash runs a named FLASH configuration preset end to end:
// ingest a corpus, hash and insert it, hash and run a query batch against
// it, and report index statistics (and, if the preset sets SimK, average
// cosine similarity over the top candidates). Mirrors
// original_source/src/main.rs's single-preset-argument CLI, rebuilt on
// Cobra the way the teacher's cmd/sqvect/main.go is.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	flash "github.com/nmeisburger/Flash"
	"github.com/nmeisburger/Flash/internal/logx"
	"github.com/nmeisburger/Flash/pkg/evaluator"
	"github.com/nmeisburger/Flash/pkg/sparse"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "flash <preset>",
	Short: "Run a FLASH approximate nearest-neighbor index against a named configuration preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreset(args[0])
	},
}

func runPreset(name string) error {
	cfg, ok := presets[name]
	if !ok {
		return fmt.Errorf("invalid mode %q entered: %w", name, flash.ErrUnknownPreset)
	}

	runID := uuid.New().String()
	level := logx.LevelInfo
	if verbose {
		level = logx.LevelDebug
	}
	logger := logx.NewStd(level).With("run", runID, "preset", name)

	idx, err := flash.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	logger.Info("ingesting corpus", "file", cfg.Data.Filename, "vectors", cfg.Data.NumData)
	corpus, err := sparse.ReadFile(cfg.Data.Filename, cfg.Data.NumData, cfg.Data.AvgDim, 0)
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}
	idx.InsertBatch(corpus)

	// Queries are a held-out slice of the same file, read immediately
	// after the corpus lines so they were not themselves inserted.
	logger.Info("reading query batch", "file", cfg.Data.Filename, "vectors", cfg.Data.NumQuery)
	queries, err := sparse.ReadFile(cfg.Data.Filename, cfg.Data.NumQuery, cfg.Data.AvgDim, cfg.Data.NumData)
	if err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}
	results := idx.QueryBatch(queries)

	stats := idx.Stats()
	logger.Info("done",
		"inserted", stats.TotalInserted,
		"densification_failures", stats.DensificationFailures,
		"tables", stats.Tables,
		"rows", stats.Rows,
	)

	if cfg.SimK > 0 {
		combined := sparse.Concat(corpus, queries)
		sim := evaluator.AverageCosineSimilarity(combined, corpus.Len(), queries.Len(), results, cfg.SimK)
		logger.Info("evaluation", "average_cosine_similarity", sim)
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug-level) logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
