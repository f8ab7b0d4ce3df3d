package normalize

import (
	"regexp"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

// Redaction patterns. Each match is replaced by a fixed label so the
// output carries no trace of the original value's length or shape.
var (
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	phoneRe = regexp.MustCompile(`(?:\+?\d[\s-]?){7,15}`)
	tokenRe = regexp.MustCompile(`(?i)(?:api|secret|token|key)[=:]\s*[A-Za-z0-9-_]{10,}`)
	idRe    = regexp.MustCompile(`\b\d{15,}\b`)
)

// Redact masks sensitive substrings in cleaned content. The four
// passes run strictly in the order email, phone, token, id, each
// operating on the prior pass's output. Redaction is idempotent.
func Redact(text string, cfg domain.RedactSettings) string {
	if !cfg.Enabled {
		return text
	}

	redacted := text
	if cfg.MaskEmail {
		redacted = emailRe.ReplaceAllString(redacted, "[email_redacted]")
	}
	if cfg.MaskPhone {
		redacted = phoneRe.ReplaceAllString(redacted, "[phone_redacted]")
	}
	if cfg.MaskTokens {
		redacted = tokenRe.ReplaceAllString(redacted, "[token_redacted]")
	}
	if cfg.MaskIDs {
		redacted = idRe.ReplaceAllString(redacted, "[id_redacted]")
	}
	return redacted
}
