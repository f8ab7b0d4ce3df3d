package driving

import (
	"context"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// RetrieveService answers a prompt with ranked, near-duplicate-filtered
// example documents from the vector index.
type RetrieveService interface {
	Retrieve(ctx context.Context, prompt, recentContext string) ([]domain.RetrievalMatch, error)
}
