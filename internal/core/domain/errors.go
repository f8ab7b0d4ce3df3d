package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnsupportedInput indicates the export path is neither an
	// archive, a directory, nor a recognised single file. Fatal to the
	// ingest invocation before any output is produced.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrSelfIDRequired indicates the self author id is missing.
	// Document building cannot start without it.
	ErrSelfIDRequired = errors.New("self author id is required")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown embedding, vector store
	// or LLM backend name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Indexing and retrieval need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured or could not be opened.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Reply generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
