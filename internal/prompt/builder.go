// Package prompt assembles the chat messages sent to the LLM when
// generating a reply in the user's voice. Retrieved documents become
// worked examples in the user message; generation settings steer
// length, tone, and emoji use through the system prompt.
package prompt

import (
	"fmt"
	"strings"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
)

func lengthGuidance(length string) string {
	switch length {
	case "short":
		return "Keep replies under 20 words; 1-2 short sentences max."
	case "medium":
		return "Keep replies under 80 words."
	case "long":
		return "You may elaborate up to 200 words."
	default:
		return ""
	}
}

func toneGuidance(tone string) string {
	switch tone {
	case "casual":
		return "Use a relaxed, conversational voice with chat slang when natural."
	case "neutral":
		return "Keep it concise and direct; avoid filler or polite fluff."
	case "professional":
		return "Sound concise, confident, and professional."
	default:
		return ""
	}
}

func emojiGuidance(level string) string {
	switch level {
	case "none":
		return "Do not use emojis."
	case "low":
		return "Use emojis sparingly, only if natural."
	case "normal":
		return "Use emojis as you typically would."
	default:
		return ""
	}
}

// BuildExamplesBlock renders retrieved matches as numbered
// context/reply examples. Matches without a stored context fall back
// to the raw document text on both sides.
func BuildExamplesBlock(examples []domain.RetrievalMatch) string {
	if len(examples) == 0 {
		return "No prior examples provided."
	}

	rendered := make([]string, 0, len(examples))
	for i, example := range examples {
		context := metadataString(example.Metadata, domain.MetaContextText)
		if context == "" {
			context = example.Document
		}
		reply := example.ReplyText()
		rendered = append(rendered,
			fmt.Sprintf("Example %d\nContext:\n%s\nMy reply:\n%s", i+1, context, reply))
	}
	return strings.Join(rendered, "\n\n")
}

// BuildSystemPrompt composes the system message from the fixed persona
// instructions plus the configured style guidance.
func BuildSystemPrompt(cfg domain.GenerationSettings) string {
	parts := []string{
		"You are an assistant that writes responses exactly as the user would.",
		"Mimic their tone, phrasing, and brevity. Avoid quoting private info verbatim.",
		"Default to concise, neutral replies; avoid exclamation marks and avoid emojis unless the user used them.",
		"Keep DM-style slang and abbreviations from the examples; lower-case is fine.",
		"Always answer the prompt directly; do not change the subject or repeat the prompt.",
		"If asked to do something, state whether you'll do it and when, in one short sentence.",
		"Do not repeat the prompt or context verbatim; produce a fresh reply in the user's voice.",
		"If unsure, ask a short follow-up instead of guessing.",
		"Do not output personal data from memory or examples; paraphrase or omit.",
		lengthGuidance(cfg.Length),
		toneGuidance(cfg.Tone),
		emojiGuidance(cfg.EmojiLevel),
	}
	if cfg.PersonaName != "" {
		parts = append(parts, "Persona name: "+cfg.PersonaName)
	}
	if cfg.Honesty {
		parts = append(parts, "If context is insufficient, ask a clarifying question.")
	}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// BuildMessages assembles the full chat exchange: a system message and
// a single user message holding examples, current context, and the
// prompt to answer.
func BuildMessages(prompt, recentContext string, examples []domain.RetrievalMatch, cfg domain.GenerationSettings) []driven.ChatMessage {
	currentBlock := "Prompt:\n" + prompt
	if recentContext != "" {
		currentBlock = fmt.Sprintf("Current context:\n%s\n\nPrompt:\n%s", recentContext, prompt)
	}

	userContent := "You are replying exactly as the user would. Do not repeat the prompt or context; write a new reply in their style.\n" +
		"Answer the ask directly (yes/no/when/etc.), stay brief, and keep any slang/abbreviations from the examples.\n" +
		"Return exactly one short sentence (<20 words) that answers the ask. Do not include anything else.\n" +
		fmt.Sprintf("Here are examples of how I reply:\n%s\n\n", BuildExamplesBlock(examples)) +
		"Now respond to the current prompt.\n" +
		currentBlock + "\n" +
		"Return only one best reply, nothing else."

	return []driven.ChatMessage{
		{Role: "system", Content: BuildSystemPrompt(cfg)},
		{Role: "user", Content: userContent},
	}
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	if s, ok := metadata[key].(string); ok {
		return s
	}
	return ""
}
