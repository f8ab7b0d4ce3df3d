package driven

import (
	"context"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// VectorStore stores document vectors and answers nearest-neighbour
// queries. The store owns ranking; higher score means closer. The
// persistence mechanism is opaque to the core.
type VectorStore interface {
	// Add appends documents with their embeddings. The four slices are
	// parallel and must have equal length.
	Add(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error

	// Query returns the top-k matches for the query vector, ranked by
	// descending score.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.RetrievalMatch, error)

	// Reset removes all stored documents.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
