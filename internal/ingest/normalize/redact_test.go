package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

func allMasks() domain.RedactSettings {
	return domain.RedactSettings{
		Enabled:    true,
		MaskEmail:  true,
		MaskPhone:  true,
		MaskTokens: true,
		MaskIDs:    true,
	}
}

func TestRedactDisabled(t *testing.T) {
	text := "person@example.com token=abcdef123456"
	assert.Equal(t, text, Redact(text, domain.RedactSettings{}))
}

func TestRedactEmail(t *testing.T) {
	got := Redact("write to jo.smith+tag@mail-host.co.uk today", allMasks())
	assert.Equal(t, "write to [email_redacted] today", got)
}

func TestRedactPhone(t *testing.T) {
	got := Redact("call +1 555-123-4567 now", allMasks())
	assert.Contains(t, got, "[phone_redacted]")
	assert.NotContains(t, got, "555")
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"key assignment", "key=A1b2C3d4E5f6"},
		{"token colon", "token: ghp_abcdefgh12345"},
		{"secret colon", "secret:SuperSecretValue99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.in, allMasks())
			assert.Contains(t, got, "[token_redacted]")
		})
	}
}

func TestRedactLongNumericID(t *testing.T) {
	got := Redact("user 123456789012345678 joined", allMasks())
	assert.Equal(t, "user [id_redacted] joined", got)
}

func TestRedactShortNumberKept(t *testing.T) {
	got := Redact("room 42", allMasks())
	assert.Equal(t, "room 42", got)
}

func TestRedactIndividualFlags(t *testing.T) {
	cfg := allMasks()
	cfg.MaskEmail = false

	got := Redact("person@example.com", cfg)
	assert.Equal(t, "person@example.com", got)
}

func TestRedactIdempotent(t *testing.T) {
	inputs := []string{
		"mail person@example.com or call 555-123-4567",
		"token=abcdefgh1234 id 123456789012345678",
		"nothing sensitive here",
	}
	cfg := allMasks()
	for _, in := range inputs {
		once := Redact(in, cfg)
		twice := Redact(once, cfg)
		assert.Equal(t, once, twice, "redaction must be idempotent for %q", in)
	}
}

func TestRedactPassOrder(t *testing.T) {
	// An email containing a long digit run is consumed by the email
	// pass before the id pass can see it.
	got := Redact("123456789012345678@example.com", allMasks())
	assert.Equal(t, "[email_redacted]", got)
}
