package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persona-labs/persona-cli/internal/core/ports/driving"
	"github.com/persona-labs/persona-cli/internal/core/services"
)

var (
	ingestSelfID          string
	ingestExcludeChannels []string
	ingestDropURLs        bool
	ingestMinLength       int
	ingestRedact          bool
	ingestDryRun          bool
	ingestSkipIndex       bool
	ingestResetIndex      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [export]",
	Short: "Parse a chat export and build the index",
	Long: `Parses a chat export (zip archive, extracted folder, or a single
JSON/JSONL file), normalises the messages into the canonical artifact,
and builds the vector index from your own replies.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSelfID, "self-id", "", "author id representing you (required)")
	ingestCmd.Flags().StringSliceVar(&ingestExcludeChannels, "exclude-channels", nil, "channel ids or names to skip")
	ingestCmd.Flags().BoolVar(&ingestDropURLs, "drop-urls", false, "remove URLs from messages")
	ingestCmd.Flags().IntVar(&ingestMinLength, "min-length", 0, "drop messages shorter than this after cleaning")
	ingestCmd.Flags().BoolVar(&ingestRedact, "redact", false, "enable basic PII redaction")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "parse and normalise without writing anything")
	ingestCmd.Flags().BoolVar(&ingestSkipIndex, "skip-index", false, "save the artifact but skip the index build")
	ingestCmd.Flags().BoolVar(&ingestResetIndex, "reset-index", false, "clear the vector store before indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestSelfID != "" {
		settings.SelfID = ingestSelfID
	}
	if settings.SelfID == "" {
		return fmt.Errorf("--self-id is required (or set self_id in the config file)")
	}

	flags := cmd.Flags()
	if flags.Changed("exclude-channels") {
		settings.Ingest.ExcludeChannels = ingestExcludeChannels
	}
	if flags.Changed("drop-urls") {
		settings.Ingest.DropURLs = ingestDropURLs
	}
	if flags.Changed("min-length") {
		settings.Ingest.MinLength = ingestMinLength
	}
	if flags.Changed("redact") {
		settings.Ingest.Redact.Enabled = ingestRedact
	}

	messageStore, err := openMessageStore()
	if err != nil {
		return err
	}

	var indexer *services.IndexerService
	var cleanup func()
	if !ingestDryRun && !ingestSkipIndex {
		embedding, vectorStore, stackCleanup, err := openRetrievalStack()
		if err != nil {
			return err
		}
		cleanup = stackCleanup
		indexer = services.NewIndexerService(
			embedding, vectorStore,
			settings.Index.BatchSize, settings.Index.EmbedRatePerMinute,
		)
	}
	if cleanup != nil {
		defer cleanup()
	}

	svc := services.NewIngestService(messageStore, indexer, settings)
	stats, err := svc.Ingest(context.Background(), args[0], driving.IngestOptions{
		DryRun:     ingestDryRun,
		SkipIndex:  ingestSkipIndex,
		ResetIndex: ingestResetIndex,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Parsed %d raw messages, kept %d after filtering\n", stats.RawParsed, stats.Kept)
	switch {
	case ingestDryRun:
		cmd.Println("Dry run complete. No data written.")
	case ingestSkipIndex:
		cmd.Printf("Saved artifact to %s (index build skipped)\n", messageStore.Path())
	default:
		cmd.Printf("Saved artifact to %s\n", messageStore.Path())
		cmd.Printf("Indexed %d documents\n", stats.Indexed)
	}
	return nil
}
