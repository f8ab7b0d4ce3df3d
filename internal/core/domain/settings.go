package domain

const unknownDescription = "Unknown"

// EmbeddingBackend identifies an embedding service provider.
type EmbeddingBackend string

// Available embedding backends.
const (
	// EmbeddingBackendOpenAI is the OpenAI cloud API.
	EmbeddingBackendOpenAI EmbeddingBackend = "openai"

	// EmbeddingBackendOllama is a local Ollama instance.
	EmbeddingBackendOllama EmbeddingBackend = "ollama"
)

// IsValid returns true if the embedding backend is recognised.
func (b EmbeddingBackend) IsValid() bool {
	switch b {
	case EmbeddingBackendOpenAI, EmbeddingBackendOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this backend needs an API key.
func (b EmbeddingBackend) RequiresAPIKey() bool {
	return b == EmbeddingBackendOpenAI
}

// String returns the string representation.
func (b EmbeddingBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b EmbeddingBackend) Description() string {
	switch b {
	case EmbeddingBackendOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingBackendOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory keeps vectors in memory for the process lifetime.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendSQLite persists vectors in a SQLite database.
	VectorBackendSQLite VectorBackend = "sqlite"
)

// IsValid returns true if the vector backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMemory, VectorBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// LLMBackend identifies an LLM service provider.
type LLMBackend string

// Available LLM backends.
const (
	// LLMBackendOpenAI is the OpenAI cloud API.
	LLMBackendOpenAI LLMBackend = "openai"

	// LLMBackendOllama is a local Ollama instance.
	LLMBackendOllama LLMBackend = "ollama"
)

// IsValid returns true if the LLM backend is recognised.
func (b LLMBackend) IsValid() bool {
	switch b {
	case LLMBackendOpenAI, LLMBackendOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this backend needs an API key.
func (b LLMBackend) RequiresAPIKey() bool {
	return b == LLMBackendOpenAI
}

// String returns the string representation.
func (b LLMBackend) String() string {
	return string(b)
}

// RedactSettings enables masking of sensitive substrings in message
// content. The passes run in a fixed order: email, phone, token, id.
type RedactSettings struct {
	// Enabled turns redaction on. Individual masks are ignored when false.
	Enabled bool `toml:"enabled"`

	// MaskEmail masks email addresses.
	MaskEmail bool `toml:"mask_email"`

	// MaskPhone masks phone-number-like digit sequences.
	MaskPhone bool `toml:"mask_phone"`

	// MaskTokens masks inline secret/token/key assignments.
	MaskTokens bool `toml:"mask_tokens"`

	// MaskIDs masks bare numeric identifiers of 15+ digits.
	MaskIDs bool `toml:"mask_ids"`
}

// IngestSettings configures export parsing and normalisation.
type IngestSettings struct {
	// ExcludeChannels lists channel names or ids to skip, matched
	// case-insensitively before any record from the channel is emitted.
	ExcludeChannels []string `toml:"exclude_channels"`

	// IgnoreEmpty drops messages with no usable content.
	IgnoreEmpty bool `toml:"ignore_empty"`

	// MinLength drops content shorter than this after cleaning.
	MinLength int `toml:"min_length"`

	// DropURLs strips URL substrings before other checks.
	DropURLs bool `toml:"drop_urls"`

	// DropAttachmentsOnly drops messages whose original content field
	// was entirely absent even if attachments exist (with IgnoreEmpty).
	DropAttachmentsOnly bool `toml:"drop_attachments_only"`

	// Redact configures masking of sensitive substrings.
	Redact RedactSettings `toml:"redact"`
}

// IndexSettings configures embedding and vector storage.
type IndexSettings struct {
	// EmbeddingBackend selects the embedding provider.
	EmbeddingBackend EmbeddingBackend `toml:"embedding_backend"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// VectorBackend selects the vector store implementation.
	VectorBackend VectorBackend `toml:"vector_backend"`

	// BatchSize bounds the payload of each embedding call. Batches run
	// strictly sequentially.
	BatchSize int `toml:"batch_size"`

	// EmbedRatePerMinute throttles embedding batches. Zero disables
	// the throttle.
	EmbedRatePerMinute int `toml:"embed_rate_per_minute"`

	// APIKey authenticates cloud embedding backends.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the embedding API endpoint.
	BaseURL string `toml:"base_url"`
}

// RetrievalSettings configures querying and deduplication.
type RetrievalSettings struct {
	// TopK is the number of nearest matches requested from the store.
	TopK int `toml:"top_k"`

	// DedupeThreshold is the similarity ratio at or above which a
	// later-ranked result is discarded as a near duplicate.
	DedupeThreshold float64 `toml:"dedupe_threshold"`

	// ContextWindow is the number of preceding messages rendered as
	// conversational context for a pair document.
	ContextWindow int `toml:"context_window"`
}

// GenerationSettings configures reply generation.
type GenerationSettings struct {
	// PersonaName optionally names the persona in the system prompt.
	PersonaName string `toml:"persona_name"`

	// Length is one of "short", "medium", "long".
	Length string `toml:"length"`

	// Tone is one of "casual", "neutral", "professional".
	Tone string `toml:"tone"`

	// EmojiLevel is one of "none", "low", "normal".
	EmojiLevel string `toml:"emoji_level"`

	// Honesty asks for a clarifying question when context is thin.
	Honesty bool `toml:"honesty"`

	// MaxTokens caps the completion length.
	MaxTokens int `toml:"max_tokens"`

	// Temperature controls randomness.
	Temperature float64 `toml:"temperature"`
}

// LLMSettings configures the LLM collaborator.
type LLMSettings struct {
	// Backend selects the LLM provider.
	Backend LLMBackend `toml:"backend"`

	// Model is the model name.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates cloud backends.
	APIKey string `toml:"api_key"`
}

// PathSettings locates on-disk artifacts.
type PathSettings struct {
	// DataDir is the root data directory (default ~/.persona).
	DataDir string `toml:"data_dir"`
}

// Settings is the full application configuration.
type Settings struct {
	SelfID     string             `toml:"self_id"`
	Paths      PathSettings       `toml:"paths"`
	Ingest     IngestSettings     `toml:"ingest"`
	Index      IndexSettings      `toml:"index"`
	Retrieval  RetrievalSettings  `toml:"retrieval"`
	Generation GenerationSettings `toml:"generation"`
	LLM        LLMSettings        `toml:"llm"`
}

// DefaultSettings returns the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Ingest: IngestSettings{
			IgnoreEmpty:         true,
			DropAttachmentsOnly: true,
			Redact: RedactSettings{
				MaskEmail:  true,
				MaskPhone:  true,
				MaskTokens: true,
				MaskIDs:    true,
			},
		},
		Index: IndexSettings{
			EmbeddingBackend: EmbeddingBackendOpenAI,
			EmbeddingModel:   "text-embedding-3-small",
			VectorBackend:    VectorBackendSQLite,
			BatchSize:        32,
		},
		Retrieval: RetrievalSettings{
			TopK:            8,
			DedupeThreshold: 0.95,
			ContextWindow:   10,
		},
		Generation: GenerationSettings{
			Length:      "medium",
			Tone:        "casual",
			EmojiLevel:  "low",
			Honesty:     true,
			MaxTokens:   220,
			Temperature: 0.7,
		},
		LLM: LLMSettings{
			Backend: LLMBackendOpenAI,
			Model:   "gpt-4o-mini",
		},
	}
}
