package driven

import "github.com/persona-labs/persona-cli/internal/core/domain"

// MessageStore persists the canonical message artifact produced by
// normalisation. The artifact is append-only output of a single
// producer; exactly one ingest process runs at a time against it.
type MessageStore interface {
	// Save writes the full message sequence, replacing any previous artifact.
	Save(messages []domain.Message) error

	// Load reads the message sequence back. Malformed records are skipped.
	Load() ([]domain.Message, error)

	// Path returns the artifact location for display.
	Path() string
}
