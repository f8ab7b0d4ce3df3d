package domain

// DocType identifies the kind of retrieval document.
type DocType string

// Available document types.
const (
	// DocTypeSingle is a reply-only document.
	DocTypeSingle DocType = "single"

	// DocTypeConversationPair is a context+reply document.
	DocTypeConversationPair DocType = "conversation_pair"
)

// IsValid returns true if the document type is recognised.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeSingle, DocTypeConversationPair:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// Metadata keys shared by the document builder and retrieval.
const (
	// MetaDocType holds the DocType string.
	MetaDocType = "doc_type"

	// MetaSourceMessageID links a document to the message it was built from.
	MetaSourceMessageID = "source_message_id"

	// MetaChannelID is the provenance channel id.
	MetaChannelID = "channel_id"

	// MetaChannelName is the provenance channel name.
	MetaChannelName = "channel_name"

	// MetaTimestamp is the provenance timestamp key.
	MetaTimestamp = "timestamp"

	// MetaContextText is the rendered conversation context of a pair document.
	MetaContextText = "context_text"

	// MetaTargetReply is the self-authored reply text. Always non-empty.
	MetaTargetReply = "target_reply"
)

// Document is a retrieval/training unit built from the canonical
// message sequence. Immutable once built; persisted externally via the
// embedding and vector-store collaborators.
type Document struct {
	// ID is unique within one build ("single-<id>" or "pair-<id>").
	ID string

	// Text is fed to the embedding collaborator.
	Text string

	// Metadata carries doc_type, provenance fields, target_reply and,
	// for pair documents, context_text.
	Metadata map[string]any
}

// RetrievalMatch is an ephemeral result record from the vector store.
// The store owns ranking; the core only filters, never re-scores.
type RetrievalMatch struct {
	// ID is the matched document id.
	ID string

	// Document is the stored document text.
	Document string

	// Metadata is the stored document metadata.
	Metadata map[string]any

	// Score is the store-defined relevance score (higher = closer).
	Score float64
}

// ReplyText returns the text used for near-duplicate comparison: the
// target_reply metadata field, falling back to the stored text.
func (m RetrievalMatch) ReplyText() string {
	if reply, ok := m.Metadata[MetaTargetReply].(string); ok && reply != "" {
		return reply
	}
	return m.Document
}
