package domain

// RawMessage is a message candidate lifted straight out of an export
// record, before any cleaning or filtering. String fields hold
// whatever the export carried; Timestamp is the normalised instant
// (or the verbatim original when it could not be parsed).
type RawMessage struct {
	ID               string `json:"id"`
	ChannelID        string `json:"channel_id,omitempty"`
	ChannelName      string `json:"channel_name,omitempty"`
	AuthorID         string `json:"author_id"`
	AuthorName       string `json:"author_name,omitempty"`
	Timestamp        string `json:"timestamp"`
	Content          string `json:"content"`
	Mentions         []any  `json:"mentions"`
	Attachments      []any  `json:"attachments"`
	ReplyToMessageID string `json:"reply_to_message_id,omitempty"`
}

// Message is a normalised message in the canonical artifact: cleaned
// content, provenance intact, list fields never nil.
type Message struct {
	ID               string `json:"id"`
	ChannelID        string `json:"channel_id,omitempty"`
	ChannelName      string `json:"channel_name,omitempty"`
	AuthorID         string `json:"author_id"`
	AuthorName       string `json:"author_name,omitempty"`
	Timestamp        string `json:"timestamp"`
	Content          string `json:"content"`
	Mentions         []any  `json:"mentions"`
	Attachments      []any  `json:"attachments"`
	ReplyToMessageID string `json:"reply_to_message_id,omitempty"`
}

// SortKey orders messages chronologically. ISO-8601 instants sort
// lexicographically; messages without a timestamp sort first.
func (m Message) SortKey() string {
	return m.Timestamp
}
