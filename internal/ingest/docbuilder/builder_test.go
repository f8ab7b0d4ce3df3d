package docbuilder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

const selfID = "me"

func msg(id, authorID, authorName, content string) domain.Message {
	return domain.Message{
		ID: id, AuthorID: authorID, AuthorName: authorName,
		Content: content, ChannelID: "c1", ChannelName: "general",
		Timestamp: "2024-01-01T00:00:00Z",
	}
}

func TestBuildRequiresSelfID(t *testing.T) {
	_, err := Build([]domain.Message{msg("1", "me", "self", "hi")}, "", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSelfIDRequired)
}

func TestBuildSingleAndPair(t *testing.T) {
	messages := []domain.Message{
		msg("1", "a", "alice", "how are you"),
		msg("2", "b", "bob", "yeah how is it going"),
		msg("3", "c", "carol", "tell us"),
		msg("4", selfID, "self", "pretty good thanks"),
	}

	docs, err := Build(messages, selfID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	single := docs[0]
	assert.Equal(t, "single-4", single.ID)
	assert.Equal(t, "pretty good thanks", single.Text)
	assert.Equal(t, domain.DocTypeSingle.String(), single.Metadata[domain.MetaDocType])
	assert.Equal(t, "pretty good thanks", single.Metadata[domain.MetaTargetReply])
	assert.Equal(t, "general", single.Metadata[domain.MetaChannelName])

	pair := docs[1]
	assert.Equal(t, "pair-4", pair.ID)
	assert.Equal(t, domain.DocTypeConversationPair.String(), pair.Metadata[domain.MetaDocType])

	contextText, ok := pair.Metadata[domain.MetaContextText].(string)
	require.True(t, ok)
	lines := strings.Split(contextText, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "alice: how are you", lines[0])
	assert.Equal(t, "bob: yeah how is it going", lines[1])
	assert.Equal(t, "carol: tell us", lines[2])

	assert.Equal(t, contextText+"\n\n[My reply follows above]", pair.Text)
	assert.Equal(t, "pretty good thanks", pair.Metadata[domain.MetaTargetReply])
}

func TestBuildNoPairWithoutContext(t *testing.T) {
	docs, err := Build([]domain.Message{
		msg("1", selfID, "self", "opening line"),
	}, selfID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "single-1", docs[0].ID)
}

func TestBuildSkipsOtherAuthorsAndEmptyReplies(t *testing.T) {
	docs, err := Build([]domain.Message{
		msg("1", "a", "alice", "hello"),
		msg("2", selfID, "self", "   "),
		msg("3", "a", "alice", "anyone there"),
	}, selfID, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBuildContextWindowBounds(t *testing.T) {
	var messages []domain.Message
	for i := 0; i < 6; i++ {
		messages = append(messages, msg(fmt.Sprintf("m%d", i), "a", "alice", fmt.Sprintf("line %d", i)))
	}
	messages = append(messages, msg("reply", selfID, "self", "my take"))

	docs, err := Build(messages, selfID, 3)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	contextText := docs[1].Metadata[domain.MetaContextText].(string)
	lines := strings.Split(contextText, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "alice: line 3", lines[0])
	assert.Equal(t, "alice: line 5", lines[2])
}

func TestBuildContextOmitsEmptyEntries(t *testing.T) {
	docs, err := Build([]domain.Message{
		msg("1", "a", "alice", "first"),
		msg("2", "b", "bob", ""),
		msg("3", selfID, "self", "reply"),
	}, selfID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	contextText := docs[1].Metadata[domain.MetaContextText].(string)
	assert.Equal(t, "alice: first", contextText)
}

func TestBuildUnknownAuthorName(t *testing.T) {
	docs, err := Build([]domain.Message{
		{ID: "1", AuthorID: "a", Content: "no name"},
		msg("2", selfID, "self", "reply"),
	}, selfID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	contextText := docs[1].Metadata[domain.MetaContextText].(string)
	assert.Equal(t, "unknown: no name", contextText)
}

func TestBuildPositionalIDFallback(t *testing.T) {
	docs, err := Build([]domain.Message{
		msg("", selfID, "self", "no id here"),
	}, selfID, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "single-msg-0", docs[0].ID)
	assert.Equal(t, "msg-0", docs[0].Metadata[domain.MetaSourceMessageID])
}

func TestBuildTargetReplyAlwaysSelfAuthored(t *testing.T) {
	messages := []domain.Message{
		msg("1", "a", "alice", "context"),
		msg("2", selfID, "self", "  trimmed reply  "),
		msg("3", "a", "alice", "more context"),
		msg("4", selfID, "self", "another reply"),
	}
	docs, err := Build(messages, selfID, 10)
	require.NoError(t, err)

	selfContents := map[string]bool{"trimmed reply": true, "another reply": true}
	for _, d := range docs {
		reply, ok := d.Metadata[domain.MetaTargetReply].(string)
		require.True(t, ok)
		assert.NotEmpty(t, reply)
		assert.True(t, selfContents[reply], "target_reply %q must match a self-authored message", reply)
	}
}
