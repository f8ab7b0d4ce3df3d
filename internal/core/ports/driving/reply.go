package driving

import (
	"context"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// ReplyResult carries the generated reply plus the retrieval behind it.
type ReplyResult struct {
	// Reply is the completion text.
	Reply string

	// Retrieval is the deduplicated example set used in the prompt.
	Retrieval []domain.RetrievalMatch
}

// ReplyService generates a reply in the user's voice, grounded on
// retrieved examples.
type ReplyService interface {
	Reply(ctx context.Context, prompt, recentContext string) (ReplyResult, error)
}
