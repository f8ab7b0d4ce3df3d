package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// mockRetriever implements driving.RetrieveService for testing.
type mockRetriever struct {
	matches     []domain.RetrievalMatch
	err         error
	lastPrompt  string
	lastContext string
}

func (m *mockRetriever) Retrieve(_ context.Context, prompt, recentContext string) ([]domain.RetrievalMatch, error) {
	m.lastPrompt = prompt
	m.lastContext = recentContext
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func TestReplyGeneratesWithExamples(t *testing.T) {
	retriever := &mockRetriever{matches: []domain.RetrievalMatch{
		pairMatch("a", "yeah omw", 0.9),
	}}
	llm := &mockLLMService{reply: "  sure, be there at 8  "}
	gen := domain.DefaultSettings().Generation

	svc := NewReplyService(retriever, llm, gen)

	result, err := svc.Reply(context.Background(), "free tonight?", "bob: movie?")
	require.NoError(t, err)

	assert.Equal(t, "sure, be there at 8", result.Reply)
	require.Len(t, result.Retrieval, 1)
	assert.Equal(t, "free tonight?", retriever.lastPrompt)
	assert.Equal(t, "bob: movie?", retriever.lastContext)

	require.Len(t, llm.lastMsgs, 2)
	assert.Equal(t, "system", llm.lastMsgs[0].Role)
	assert.Contains(t, llm.lastMsgs[1].Content, "yeah omw")
	assert.Equal(t, 220, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.7, llm.lastOpts.Temperature, 1e-9)
}

func TestReplyEmptyPrompt(t *testing.T) {
	svc := NewReplyService(&mockRetriever{}, &mockLLMService{}, domain.DefaultSettings().Generation)

	_, err := svc.Reply(context.Background(), "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplyRetrievalError(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("index offline")}
	llm := &mockLLMService{}
	svc := NewReplyService(retriever, llm, domain.DefaultSettings().Generation)

	_, err := svc.Reply(context.Background(), "hi", "")
	assert.ErrorContains(t, err, "index offline")
	assert.Zero(t, llm.chatCalls)
}

func TestReplyLLMErrorKeepsRetrieval(t *testing.T) {
	retriever := &mockRetriever{matches: []domain.RetrievalMatch{pairMatch("a", "hey", 0.9)}}
	llm := &mockLLMService{chatErr: errors.New("rate limited")}
	svc := NewReplyService(retriever, llm, domain.DefaultSettings().Generation)

	result, err := svc.Reply(context.Background(), "hi", "")
	assert.ErrorContains(t, err, "generating reply")
	assert.Len(t, result.Retrieval, 1)
}

func TestReplyNoExamplesStillGenerates(t *testing.T) {
	retriever := &mockRetriever{}
	llm := &mockLLMService{reply: "what do you mean?"}
	svc := NewReplyService(retriever, llm, domain.DefaultSettings().Generation)

	result, err := svc.Reply(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "what do you mean?", result.Reply)
	assert.Contains(t, llm.lastMsgs[1].Content, "No prior examples provided.")
}
