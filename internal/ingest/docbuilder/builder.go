// Package docbuilder turns the canonical message sequence into
// retrieval documents: a reply-only "single" document for every
// self-authored message, plus a "conversation_pair" document when the
// preceding context window renders non-empty.
package docbuilder

import (
	"fmt"
	"strings"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// pairTextMarker closes the rendered context of a pair document so the
// embedded text signals where the reply slots in.
const pairTextMarker = "\n\n[My reply follows above]"

// Build produces documents for every message authored by selfAuthorID
// with non-empty trimmed content. The context window is the up-to-
// contextWindow messages immediately preceding the reply in the full
// sequence, regardless of author. Returns domain.ErrSelfIDRequired
// when selfAuthorID is empty.
func Build(messages []domain.Message, selfAuthorID string, contextWindow int) ([]domain.Document, error) {
	if selfAuthorID == "" {
		return nil, domain.ErrSelfIDRequired
	}

	var docs []domain.Document
	for i, msg := range messages {
		if msg.AuthorID != selfAuthorID {
			continue
		}

		targetReply := strings.TrimSpace(msg.Content)
		if targetReply == "" {
			continue
		}

		msgID := msg.ID
		if msgID == "" {
			// Positional fallback keeps ids unique within one build.
			msgID = fmt.Sprintf("msg-%d", i)
		}

		docs = append(docs, domain.Document{
			ID:   "single-" + msgID,
			Text: targetReply,
			Metadata: map[string]any{
				domain.MetaDocType:         domain.DocTypeSingle.String(),
				domain.MetaSourceMessageID: msgID,
				domain.MetaChannelID:       msg.ChannelID,
				domain.MetaChannelName:     msg.ChannelName,
				domain.MetaTimestamp:       msg.Timestamp,
				domain.MetaTargetReply:     targetReply,
			},
		})

		contextText := renderContext(messages, i, contextWindow)
		if contextText == "" {
			// Single document only; a pair without context is useless.
			continue
		}

		docs = append(docs, domain.Document{
			ID:   "pair-" + msgID,
			Text: contextText + pairTextMarker,
			Metadata: map[string]any{
				domain.MetaDocType:         domain.DocTypeConversationPair.String(),
				domain.MetaSourceMessageID: msgID,
				domain.MetaChannelID:       msg.ChannelID,
				domain.MetaChannelName:     msg.ChannelName,
				domain.MetaTimestamp:       msg.Timestamp,
				domain.MetaContextText:     contextText,
				domain.MetaTargetReply:     targetReply,
			},
		})
	}
	return docs, nil
}

// renderContext renders the preceding window as "<author>: <content>"
// lines joined by newlines, omitting entries with empty content.
func renderContext(messages []domain.Message, idx, window int) string {
	start := idx - window
	if start < 0 {
		start = 0
	}

	var lines []string
	for _, ctx := range messages[start:idx] {
		content := strings.TrimSpace(ctx.Content)
		if content == "" {
			continue
		}
		author := ctx.AuthorName
		if author == "" {
			author = "unknown"
		}
		lines = append(lines, author+": "+content)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
