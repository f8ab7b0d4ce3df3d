// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/persona-labs/persona-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/persona-labs/persona-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/persona-labs/persona-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/persona-labs/persona-cli/internal/adapters/driven/llm/openai"
	memoryvec "github.com/persona-labs/persona-cli/internal/adapters/driven/vector/memory"
	sqlitevec "github.com/persona-labs/persona-cli/internal/adapters/driven/vector/sqlite"
	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings domain.IndexSettings) (driven.EmbeddingService, error) {
	switch settings.EmbeddingBackend {
	case domain.EmbeddingBackendOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.EmbeddingModel,
		}), nil

	case domain.EmbeddingBackendOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.EmbeddingModel,
		})

	default:
		return nil, fmt.Errorf("%w: embedding backend %q", domain.ErrUnsupportedType, settings.EmbeddingBackend)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// checks connectivity before handing it back.
func CreateAndValidateEmbeddingService(settings domain.IndexSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateLLMService creates the LLM service selected by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Backend {
	case domain.LLMBackendOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.LLMBackendOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: llm backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// CreateAndValidateLLMService creates an LLM service and checks
// connectivity before handing it back.
func CreateAndValidateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateVectorStore creates the vector store selected by settings.
// dataDir locates the persistent backend's database directory.
func CreateVectorStore(backend domain.VectorBackend, dataDir string) (driven.VectorStore, error) {
	switch backend {
	case domain.VectorBackendMemory:
		return memoryvec.NewStore(), nil

	case domain.VectorBackendSQLite:
		store, err := sqlitevec.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, backend)
	}
}
