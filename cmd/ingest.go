package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwhalen/escalation-helper/internal/ingest"
	"github.com/kwhalen/escalation-helper/internal/progress"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index knowledge-base articles into the vector store",
	Long: `Walks the given directory (default: the configured knowledge base
directory), splits each markdown article into chunks, embeds them, and
persists the vector index. Re-running replaces chunks in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("reset", false, "drop the existing index before ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.DataDir
	if len(args) == 1 {
		root = args[0]
	}

	reset, _ := cmd.Flags().GetBool("reset")

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	index, err := vectordb.NewIndex(embedder)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	// Load any existing index so unchanged documents keep their entries.
	if !reset {
		if err := index.Load(ctx, cfg.IndexDir); err != nil && verbose {
			fmt.Printf("no existing index at %s, starting fresh\n", cfg.IndexDir)
		}
	}

	ingester := ingest.NewIngester(embedder, index, cfg.Ingest, progress.NewReporter())

	stats, err := ingester.Run(ctx, root)
	if err != nil {
		return err
	}

	if err := index.Persist(ctx, cfg.IndexDir); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	fmt.Printf("Indexed %d chunks from %d documents (%d total in index)\n",
		stats.Chunks, stats.Documents, index.Count())
	return nil
}
