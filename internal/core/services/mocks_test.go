package services

import (
	"context"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	vector     []float32
	vectors    [][]float32
	embedErr   error
	batchErr   error
	embedCalls []string
	batchCalls [][]string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls = append(m.embedCalls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 2 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	matches   []domain.RetrievalMatch
	queryErr  error
	addErr    error
	resetErr  error
	addCalls  []addCall
	resets    int
	lastTopK  int
	lastQuery []float32
}

type addCall struct {
	ids       []string
	vectors   [][]float32
	texts     []string
	metadatas []map[string]any
}

func (m *mockVectorStore) Add(_ context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.addCalls = append(m.addCalls, addCall{ids: ids, vectors: vectors, texts: texts, metadatas: metadatas})
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, vector []float32, topK int) ([]domain.RetrievalMatch, error) {
	m.lastQuery = vector
	m.lastTopK = topK
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK > 0 && len(m.matches) > topK {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockVectorStore) Reset(_ context.Context) error {
	m.resets++
	return m.resetErr
}

func (m *mockVectorStore) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply     string
	chatErr   error
	lastMsgs  []driven.ChatMessage
	lastOpts  driven.ChatOptions
	chatCalls int
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMsgs = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockMessageStore implements driven.MessageStore for testing.
type mockMessageStore struct {
	saved   []domain.Message
	loaded  []domain.Message
	saveErr error
	loadErr error
}

func (m *mockMessageStore) Save(messages []domain.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = messages
	return nil
}

func (m *mockMessageStore) Load() ([]domain.Message, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loaded, nil
}

func (m *mockMessageStore) Path() string { return "/tmp/messages.jsonl" }
