package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/core/ports/driving"
	"github.com/persona-labs/persona-cli/internal/logger"
	"github.com/persona-labs/persona-cli/internal/prompt"
)

// Ensure ReplyService implements the interface.
var _ driving.ReplyService = (*ReplyService)(nil)

// ReplyService generates replies in the user's voice: retrieve
// examples, build the persona prompt, ask the LLM.
type ReplyService struct {
	retriever  driving.RetrieveService
	llmService driven.LLMService
	generation domain.GenerationSettings
}

// NewReplyService creates a new reply service.
func NewReplyService(
	retriever driving.RetrieveService,
	llmService driven.LLMService,
	generation domain.GenerationSettings,
) *ReplyService {
	return &ReplyService{
		retriever:  retriever,
		llmService: llmService,
		generation: generation,
	}
}

// Reply retrieves examples for the prompt and generates a completion
// styled on them.
func (s *ReplyService) Reply(ctx context.Context, promptText, recentContext string) (driving.ReplyResult, error) {
	var result driving.ReplyResult

	promptText = strings.TrimSpace(promptText)
	if promptText == "" {
		return result, fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	matches, err := s.retriever.Retrieve(ctx, promptText, recentContext)
	if err != nil {
		return result, err
	}
	result.Retrieval = matches

	logger.Section("Generation")
	messages := prompt.BuildMessages(promptText, recentContext, matches, s.generation)
	logger.Debug("Prompting %s with %d examples", s.llmService.ModelName(), len(matches))

	reply, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.generation.MaxTokens,
		Temperature: s.generation.Temperature,
	})
	if err != nil {
		return result, fmt.Errorf("generating reply: %w", err)
	}

	result.Reply = strings.TrimSpace(reply)
	return result, nil
}
