package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/ingest/docbuilder"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// IndexerService builds the vector index from normalized messages.
// Documents are embedded in fixed-size batches, strictly sequentially;
// a batch is committed to the store before the next one is embedded,
// so an embedding failure leaves earlier batches queryable.
type IndexerService struct {
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
	batchSize        int
	limiter          *rate.Limiter
}

// NewIndexerService creates a new indexer. A zero or negative
// batchSize falls back to the default. ratePerMinute throttles
// embedding batches; zero disables the throttle.
func NewIndexerService(
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
	batchSize int,
	ratePerMinute int,
) *IndexerService {
	if batchSize <= 0 {
		batchSize = domain.DefaultSettings().Index.BatchSize
	}

	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1)
	}

	return &IndexerService{
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
		batchSize:        batchSize,
		limiter:          limiter,
	}
}

// BuildIndex turns messages into documents and writes them to the
// vector store. Returns the number of documents indexed.
func (s *IndexerService) BuildIndex(ctx context.Context, messages []domain.Message, selfID string, contextWindow int) (int, error) {
	logger.Section("Index Build")

	docs, err := docbuilder.Build(messages, selfID, contextWindow)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		logger.Info("No self-authored messages found, nothing to index")
		return 0, nil
	}
	logger.Debug("Built %d documents from %d messages", len(docs), len(messages))

	indexed := 0
	for start := 0; start < len(docs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return indexed, fmt.Errorf("waiting for rate limit: %w", err)
			}
		}

		if err := s.indexBatch(ctx, batch); err != nil {
			return indexed, fmt.Errorf("indexing batch at offset %d: %w", start, err)
		}
		indexed += len(batch)
		logger.Debug("Indexed batch %d-%d of %d", start, end-1, len(docs))
	}

	return indexed, nil
}

func (s *IndexerService) indexBatch(ctx context.Context, docs []domain.Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("%w: got %d vectors for %d documents", domain.ErrInvalidInput, len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	metadatas := make([]map[string]any, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		metadatas[i] = doc.Metadata
	}

	if err := s.vectorStore.Add(ctx, ids, vectors, texts, metadatas); err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}
	return nil
}
