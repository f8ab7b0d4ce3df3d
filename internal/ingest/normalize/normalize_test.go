package normalize

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

func defaultOpts() domain.IngestSettings {
	return domain.DefaultSettings().Ingest
}

func raw(id, ts, content string) domain.RawMessage {
	return domain.RawMessage{ID: id, Timestamp: ts, Content: content, AuthorID: "a", AuthorName: "alice"}
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name string
		opts domain.IngestSettings
		in   string
		want string
	}{
		{"carriage returns become spaces", defaultOpts(), "a\rb", "a b"},
		{"whitespace collapses", defaultOpts(), "  a \t b\n\nc  ", "a b c"},
		{"urls kept by default", defaultOpts(), "see https://example.com ok", "see https://example.com ok"},
		{
			"urls stripped when configured",
			domain.IngestSettings{DropURLs: true},
			"see https://example.com ok",
			"see ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanContent(tt.in, tt.opts))
		})
	}
}

func TestNormalizeDropsEmptyContent(t *testing.T) {
	msgs := Normalize([]domain.RawMessage{
		raw("1", "2024-01-01T00:00:00Z", "hello"),
		raw("2", "2024-01-01T00:00:01Z", "   "),
		raw("3", "2024-01-01T00:00:02Z", ""),
	}, defaultOpts())

	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestNormalizeMinLength(t *testing.T) {
	opts := defaultOpts()
	opts.MinLength = 5

	msgs := Normalize([]domain.RawMessage{
		raw("1", "", "hi"),
		raw("2", "", "hello there"),
	}, opts)

	require.Len(t, msgs, 1)
	assert.Equal(t, "hello there", msgs[0].Content)
}

func TestNormalizeRejectsSymbolSpam(t *testing.T) {
	msgs := Normalize([]domain.RawMessage{
		raw("1", "", ":)))) !!!"),
		raw("2", "", "?!?!"),
		raw("3", "", "ok!!"),
	}, defaultOpts())

	require.Len(t, msgs, 1)
	assert.Equal(t, "ok!!", msgs[0].Content)
}

func TestNormalizeSortsByTimestamp(t *testing.T) {
	msgs := Normalize([]domain.RawMessage{
		raw("c", "2024-01-03T00:00:00Z", "third"),
		raw("a", "2024-01-01T00:00:00Z", "first"),
		raw("m", "", "missing timestamp sorts first"),
		raw("b", "2024-01-02T00:00:00Z", "second"),
	}, defaultOpts())

	require.Len(t, msgs, 4)
	assert.Equal(t, "m", msgs[0].ID)
	assert.Equal(t, "a", msgs[1].ID)
	assert.Equal(t, "b", msgs[2].ID)
	assert.Equal(t, "c", msgs[3].ID)

	// Output is non-decreasing by timestamp key.
	assert.True(t, sort.SliceIsSorted(msgs, func(i, j int) bool {
		return msgs[i].SortKey() < msgs[j].SortKey()
	}))
}

func TestNormalizeSortIsStable(t *testing.T) {
	msgs := Normalize([]domain.RawMessage{
		raw("first", "2024-01-01T00:00:00Z", "one"),
		raw("second", "2024-01-01T00:00:00Z", "two"),
	}, defaultOpts())

	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].ID)
	assert.Equal(t, "second", msgs[1].ID)
}

func TestNormalizeAttachmentsOnly(t *testing.T) {
	opts := defaultOpts()

	withAttachment := domain.RawMessage{ID: "1", Attachments: []any{map[string]any{"url": "a.png"}}}
	msgs := Normalize([]domain.RawMessage{withAttachment}, opts)
	assert.Empty(t, msgs, "attachment-only message has no meaningful content")
}

func TestNormalizeAppliesRedaction(t *testing.T) {
	opts := defaultOpts()
	opts.Redact.Enabled = true

	msgs := Normalize([]domain.RawMessage{
		raw("1", "", "mail me at person@example.com please"),
	}, opts)

	require.Len(t, msgs, 1)
	assert.Equal(t, "mail me at [email_redacted] please", msgs[0].Content)
}

func TestNormalizePreservesProvenance(t *testing.T) {
	in := domain.RawMessage{
		ID: "9", ChannelID: "55", ChannelName: "general",
		AuthorID: "a1", AuthorName: "alice",
		Timestamp: "2024-05-01T10:00:00Z", Content: "hi there",
		ReplyToMessageID: "8",
	}
	msgs := Normalize([]domain.RawMessage{in}, defaultOpts())

	require.Len(t, msgs, 1)
	got := msgs[0]
	assert.Equal(t, "9", got.ID)
	assert.Equal(t, "55", got.ChannelID)
	assert.Equal(t, "general", got.ChannelName)
	assert.Equal(t, "a1", got.AuthorID)
	assert.Equal(t, "alice", got.AuthorName)
	assert.Equal(t, "8", got.ReplyToMessageID)
	assert.NotNil(t, got.Mentions)
	assert.NotNil(t, got.Attachments)
}
