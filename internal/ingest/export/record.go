package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// Exports disagree on field naming. Each canonical field is resolved
// from an ordered list of candidate keys, first present wins.
var (
	idKeys        = []string{"id", "ID", "MessageID"}
	contentKeys   = []string{"content", "Content", "Contents", "Message"}
	timestampKeys = []string{"timestamp", "Timestamp"}
	mentionKeys   = []string{"mentions", "Mentions"}
	attachKeys    = []string{"attachments", "Attachments"}
	replyKeys     = []string{"reference", "reply_to", "ReplyTo"}
	replyIDKeys   = []string{"message_id", "id", "MessageID"}
)

// msEpochThreshold separates second from millisecond epochs. Numeric
// timestamps above it are treated as milliseconds. Known limitation:
// far-future second epochs are misread as milliseconds; kept as
// documented behaviour.
const msEpochThreshold = 1e11

// resolveRecord normalises one export record into a RawMessage,
// falling back to the container-derived channel identity when the
// record carries none of its own.
func resolveRecord(rec map[string]any, channelID, channelName string) domain.RawMessage {
	authorID, authorName := resolveAuthor(rec)

	resolvedChannelID := coerceString(firstPresent(rec, "channel_id", "channelId"))
	if resolvedChannelID == "" {
		resolvedChannelID = channelID
	}
	resolvedChannelName := coerceString(firstPresent(rec, "channel_name", "channelName", "userName"))
	if resolvedChannelName == "" {
		resolvedChannelName = channelName
	}

	return domain.RawMessage{
		ID:               coerceString(firstPresent(rec, idKeys...)),
		ChannelID:        resolvedChannelID,
		ChannelName:      resolvedChannelName,
		AuthorID:         authorID,
		AuthorName:       authorName,
		Timestamp:        parseTimestamp(firstPresent(rec, timestampKeys...)),
		Content:          safeText(rec, contentKeys...),
		Mentions:         listField(rec, mentionKeys...),
		Attachments:      listField(rec, attachKeys...),
		ReplyToMessageID: resolveReplyTo(rec),
	}
}

// resolveAuthor extracts the author id and display name from a nested
// author object. A discriminator other than the "0" sentinel is
// appended as "name#discriminator". A bare scalar author value is
// used as the display name with an empty id.
func resolveAuthor(rec map[string]any) (id, name string) {
	raw := firstPresent(rec, "author", "Author")
	if raw == nil {
		return "", ""
	}
	author, ok := raw.(map[string]any)
	if !ok {
		return "", coerceString(raw)
	}

	name = coerceString(firstPresent(author, "username", "name", "Name"))
	if disc := coerceString(firstPresent(author, "discriminator", "Discriminator")); disc != "" && disc != "0" {
		name = name + "#" + disc
	}
	return coerceString(firstPresent(author, "id", "ID")), name
}

// resolveReplyTo resolves the referenced message id from a reference
// object's message_id/id field or a bare string value.
func resolveReplyTo(rec map[string]any) string {
	raw := firstPresent(rec, replyKeys...)
	switch v := raw.(type) {
	case map[string]any:
		return coerceString(firstPresent(v, replyIDKeys...))
	case string:
		return v
	default:
		return ""
	}
}

// parseTimestamp converts an export timestamp to an ISO-8601 instant.
// Numeric values are epoch seconds, or epoch milliseconds when the
// magnitude exceeds msEpochThreshold. String values have a trailing
// "Z" rewritten to "+00:00" before parsing; values that still fail to
// parse are passed through verbatim rather than dropped.
func parseTimestamp(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case json.Number:
		return formatEpoch(v.String())
	case float64:
		return formatEpochFloat(v)
	case string:
		if v == "" {
			return ""
		}
		return parseISOTimestamp(v)
	default:
		return fmt.Sprintf("%v", raw)
	}
}

func formatEpoch(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return formatEpochFloat(f)
}

func formatEpochFloat(f float64) string {
	if f == 0 {
		return ""
	}
	if f > msEpochThreshold {
		f /= 1000.0
	}
	secs := int64(f)
	nsecs := int64((f - float64(secs)) * 1e9)
	return time.Unix(secs, nsecs).UTC().Format(time.RFC3339Nano)
}

// isoLayouts are tried in order for string timestamps. Exports produce
// both offset-qualified and naive instants, with either a "T" or a
// space separator.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseISOTimestamp(s string) string {
	candidate := s
	if strings.HasSuffix(candidate, "Z") {
		candidate = strings.TrimSuffix(candidate, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format(time.RFC3339Nano)
		}
	}
	// Unparseable timestamps pass through verbatim.
	return s
}

// firstPresent returns the first non-nil, non-empty value among the
// candidate keys.
func firstPresent(rec map[string]any, keys ...string) any {
	for _, key := range keys {
		value, ok := rec[key]
		if !ok || value == nil {
			continue
		}
		if s, isStr := value.(string); isStr && s == "" {
			continue
		}
		return value
	}
	return nil
}

// safeText returns the first string value among the candidate keys.
// Non-string values are ignored rather than coerced.
func safeText(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok {
			return s
		}
	}
	return ""
}

// listField returns the first list value among the candidate keys,
// or an empty list.
func listField(rec map[string]any, keys ...string) []any {
	for _, key := range keys {
		if items, ok := rec[key].([]any); ok {
			return items
		}
	}
	return []any{}
}

// coerceString renders a scalar JSON value as a string. json.Number
// keeps its literal form so large ids survive without float rounding.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
