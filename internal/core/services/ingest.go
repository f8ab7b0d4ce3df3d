package services

import (
	"context"
	"fmt"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/core/ports/driving"
	"github.com/persona-labs/persona-cli/internal/ingest/export"
	"github.com/persona-labs/persona-cli/internal/ingest/normalize"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the full pipeline: parse an export, normalise it
// into the canonical artifact, and build the vector index.
type IngestService struct {
	messageStore driven.MessageStore
	indexer      *IndexerService
	settings     domain.Settings
}

// NewIngestService creates a new ingest service. The indexer may be
// nil when indexing is unavailable; Ingest then behaves as if
// SkipIndex were set.
func NewIngestService(messageStore driven.MessageStore, indexer *IndexerService, settings domain.Settings) *IngestService {
	return &IngestService{
		messageStore: messageStore,
		indexer:      indexer,
		settings:     settings,
	}
}

// Ingest parses the export at inputPath, normalises it, saves the
// artifact, and rebuilds the index unless options say otherwise.
func (s *IngestService) Ingest(ctx context.Context, inputPath string, opts driving.IngestOptions) (driving.IngestStats, error) {
	var stats driving.IngestStats

	if s.settings.SelfID == "" {
		return stats, domain.ErrSelfIDRequired
	}

	logger.Section("Export Parsing")
	raw, err := export.Parse(inputPath, s.settings.Ingest.ExcludeChannels)
	if err != nil {
		return stats, fmt.Errorf("parsing export: %w", err)
	}
	stats.RawParsed = len(raw)
	logger.Info("Parsed %d raw messages", stats.RawParsed)

	logger.Section("Normalisation")
	messages := normalize.Normalize(raw, s.settings.Ingest)
	stats.Kept = len(messages)
	logger.Info("Kept %d of %d messages after filtering", stats.Kept, stats.RawParsed)

	if opts.DryRun {
		logger.Info("Dry run, skipping artifact and index")
		return stats, nil
	}

	if err := s.messageStore.Save(messages); err != nil {
		return stats, fmt.Errorf("saving artifact: %w", err)
	}
	logger.Info("Saved artifact to %s", s.messageStore.Path())

	if opts.SkipIndex || s.indexer == nil {
		if !opts.SkipIndex {
			logger.Warn("Indexing unavailable, artifact saved without index")
		}
		return stats, nil
	}

	if opts.ResetIndex {
		if err := s.indexer.vectorStore.Reset(ctx); err != nil {
			return stats, fmt.Errorf("resetting index: %w", err)
		}
		logger.Info("Cleared existing index")
	}

	indexed, err := s.indexer.BuildIndex(ctx, messages, s.settings.SelfID, s.settings.Retrieval.ContextWindow)
	stats.Indexed = indexed
	if err != nil {
		return stats, fmt.Errorf("building index: %w", err)
	}
	logger.Info("Indexed %d documents", stats.Indexed)

	return stats, nil
}
