// Package normalize cleans, filters, redacts and chronologically
// sorts raw message records into the canonical message sequence.
//
// No error escapes this package: absent or malformed fields degrade to
// defaults rather than failing the batch.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

var (
	urlRe        = regexp.MustCompile(`https?://\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize produces the canonical message sequence: cleaned and
// redacted content, meaningless messages dropped, stably sorted
// ascending by timestamp key with missing timestamps sorting first.
func Normalize(raws []domain.RawMessage, opts domain.IngestSettings) []domain.Message {
	normalized := make([]domain.Message, 0, len(raws))
	for _, raw := range raws {
		content := cleanContent(raw.Content, opts)

		if opts.IgnoreEmpty && content == "" {
			// Attachment-only messages survive unless configured away,
			// though empty content still fails the meaningfulness check
			// below.
			if opts.DropAttachmentsOnly && raw.Content == "" {
				continue
			}
		}
		if !isMeaningful(content, opts) {
			continue
		}

		normalized = append(normalized, domain.Message{
			ID:               raw.ID,
			ChannelID:        raw.ChannelID,
			ChannelName:      raw.ChannelName,
			AuthorID:         raw.AuthorID,
			AuthorName:       raw.AuthorName,
			Timestamp:        raw.Timestamp,
			Content:          Redact(content, opts.Redact),
			Mentions:         ensureList(raw.Mentions),
			Attachments:      ensureList(raw.Attachments),
			ReplyToMessageID: raw.ReplyToMessageID,
		})
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].SortKey() < normalized[j].SortKey()
	})
	return normalized
}

// cleanContent applies the cleaning pipeline in order: carriage
// returns become spaces, trim, optional URL stripping, whitespace
// collapse, trim again.
func cleanContent(content string, opts domain.IngestSettings) string {
	cleaned := strings.ReplaceAll(content, "\r", " ")
	cleaned = strings.TrimSpace(cleaned)
	if opts.DropURLs {
		cleaned = strings.TrimSpace(urlRe.ReplaceAllString(cleaned, ""))
	}
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// isMeaningful decides whether cleaned content is worth keeping.
// Empty strings never are; content below MinLength is not; a string
// with no alphanumeric character at all is symbol/emoji spam.
func isMeaningful(text string, opts domain.IngestSettings) bool {
	if text == "" {
		return false
	}
	if opts.MinLength > 0 && utf8.RuneCountInString(text) < opts.MinLength {
		return false
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func ensureList(items []any) []any {
	if items == nil {
		return []any{}
	}
	return items
}
