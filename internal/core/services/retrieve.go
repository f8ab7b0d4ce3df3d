package services

import (
	"context"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/core/ports/driving"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.RetrieveService = (*RetrieveService)(nil)

// RetrieveService answers prompts with ranked example documents from
// the vector index, filtering near-duplicate replies so the prompt
// budget is not wasted on repeats.
type RetrieveService struct {
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
	settings         domain.RetrievalSettings
}

// NewRetrieveService creates a new retrieve service.
func NewRetrieveService(
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
	settings domain.RetrievalSettings,
) *RetrieveService {
	return &RetrieveService{
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
		settings:         settings,
	}
}

// BuildQueryText combines recent conversation context with the prompt
// into the single query string that gets embedded.
func BuildQueryText(prompt, recentContext string) string {
	if recentContext != "" {
		return fmt.Sprintf("Recent conversation:\n%s\n\nPrompt:\n%s", recentContext, prompt)
	}
	return prompt
}

// Retrieve embeds the prompt (with optional recent context), queries
// the vector store, and drops results whose reply text nearly repeats
// an earlier-ranked result.
func (s *RetrieveService) Retrieve(ctx context.Context, prompt, recentContext string) ([]domain.RetrievalMatch, error) {
	logger.Section("Retrieval")

	queryText := BuildQueryText(prompt, recentContext)
	logger.Debug("Query text: %q", queryText)

	vector, err := s.embeddingService.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	topK := s.settings.TopK
	if topK <= 0 {
		topK = domain.DefaultSettings().Retrieval.TopK
	}

	matches, err := s.vectorStore.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	logger.Debug("Store returned %d matches", len(matches))

	deduped := Deduplicate(matches, s.settings.DedupeThreshold)
	if removed := len(matches) - len(deduped); removed > 0 {
		logger.Debug("Dropped %d near-duplicate matches", removed)
	}
	return deduped, nil
}

// Deduplicate walks matches in rank order and keeps each one only if
// its reply text is not too similar to any already-kept reply.
// A threshold <= 0 falls back to the default.
func Deduplicate(matches []domain.RetrievalMatch, threshold float64) []domain.RetrievalMatch {
	if threshold <= 0 {
		threshold = domain.DefaultSettings().Retrieval.DedupeThreshold
	}

	kept := make([]domain.RetrievalMatch, 0, len(matches))
	var acceptedReplies []string

	for _, match := range matches {
		reply := match.ReplyText()
		duplicate := false
		for _, accepted := range acceptedReplies {
			if similarity(reply, accepted) >= threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, match)
		acceptedReplies = append(acceptedReplies, reply)
	}
	return kept
}

// similarity is the character-level sequence match ratio of two
// strings, in [0, 1]. Texts are compared exactly as stored; case
// differences count against the ratio. Two empty strings are
// identical.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	matcher := difflib.NewMatcher(explode(a), explode(b))
	return matcher.Ratio()
}

// explode splits a string into per-character elements so the sequence
// matcher compares characters, not lines.
func explode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
