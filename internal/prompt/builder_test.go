package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

func TestBuildExamplesBlockEmpty(t *testing.T) {
	assert.Equal(t, "No prior examples provided.", BuildExamplesBlock(nil))
}

func TestBuildExamplesBlockRendersPairs(t *testing.T) {
	examples := []domain.RetrievalMatch{
		{
			Document: "full pair text",
			Metadata: map[string]any{
				domain.MetaContextText: "alice: you coming?",
				domain.MetaTargetReply: "yeah omw",
			},
		},
		{
			Document: "standalone reply",
			Metadata: map[string]any{},
		},
	}

	block := BuildExamplesBlock(examples)

	assert.Contains(t, block, "Example 1\nContext:\nalice: you coming?\nMy reply:\nyeah omw")
	// Without stored context or reply, the document stands in for both.
	assert.Contains(t, block, "Example 2\nContext:\nstandalone reply\nMy reply:\nstandalone reply")
	assert.Equal(t, 1, strings.Count(block, "\n\n"))
}

func TestBuildSystemPromptGuidance(t *testing.T) {
	cfg := domain.GenerationSettings{
		Length:     "short",
		Tone:       "professional",
		EmojiLevel: "none",
	}

	prompt := BuildSystemPrompt(cfg)

	assert.Contains(t, prompt, "Keep replies under 20 words")
	assert.Contains(t, prompt, "Sound concise, confident, and professional.")
	assert.Contains(t, prompt, "Do not use emojis.")
	assert.NotContains(t, prompt, "clarifying question")
	assert.NotContains(t, prompt, "Persona name:")
}

func TestBuildSystemPromptPersonaAndHonesty(t *testing.T) {
	cfg := domain.GenerationSettings{
		PersonaName: "sam",
		Honesty:     true,
	}

	prompt := BuildSystemPrompt(cfg)

	assert.Contains(t, prompt, "Persona name: sam")
	assert.Contains(t, prompt, "If context is insufficient, ask a clarifying question.")
	// Unknown style values contribute nothing, and blanks are not joined in.
	assert.NotContains(t, prompt, "  ")
}

func TestBuildMessagesWithContext(t *testing.T) {
	msgs := BuildMessages("free tonight?", "bob: movie later?", nil, domain.DefaultSettings().Generation)

	assert.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Current context:\nbob: movie later?\n\nPrompt:\nfree tonight?")
	assert.Contains(t, msgs[1].Content, "No prior examples provided.")
	assert.Contains(t, msgs[1].Content, "Return only one best reply, nothing else.")
}

func TestBuildMessagesWithoutContext(t *testing.T) {
	msgs := BuildMessages("free tonight?", "", nil, domain.DefaultSettings().Generation)

	assert.NotContains(t, msgs[1].Content, "Current context:")
	assert.Contains(t, msgs[1].Content, "Prompt:\nfree tonight?")
}
