// Package memory provides an in-memory vector store.
// Contents live for the process lifetime only; useful for tests and
// one-shot runs where persistence is not needed.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type record struct {
	id        string
	embedding []float32
	text      string
	metadata  map[string]any
}

// Store keeps document vectors in memory and answers queries by
// brute-force cosine similarity.
type Store struct {
	mu      sync.RWMutex
	records []record
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{}
}

// Add appends documents with their embeddings.
func (s *Store) Add(_ context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: mismatched add lengths", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		s.records = append(s.records, record{
			id:        id,
			embedding: vectors[i],
			text:      texts[i],
			metadata:  metadatas[i],
		})
	}
	return nil
}

// Query returns the topK nearest records by cosine similarity,
// ranked by descending score.
func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]domain.RetrievalMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]domain.RetrievalMatch, 0, len(s.records))
	for _, rec := range s.records {
		matches = append(matches, domain.RetrievalMatch{
			ID:       rec.id,
			Document: rec.text,
			Metadata: rec.metadata,
			Score:    cosine(vector, rec.embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Reset removes all stored documents.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosine computes the cosine similarity of two vectors. Mismatched or
// zero-norm vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
