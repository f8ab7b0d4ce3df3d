// Package jsonl persists normalized messages as newline-delimited JSON.
// The artifact is the durable output of ingestion: one message per
// line, ASCII-safe so it survives any editor or pipeline downstream.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore reads and writes the normalized message artifact.
type MessageStore struct {
	path string
}

// NewMessageStore creates a store writing to path. If path is empty,
// defaults to ~/.persona/messages.jsonl.
func NewMessageStore(path string) (*MessageStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".persona", "messages.jsonl")
	}
	return &MessageStore{path: path}, nil
}

// Path returns the artifact file path.
func (s *MessageStore) Path() string {
	return s.path
}

// Save writes all messages to the artifact, replacing any previous
// contents. The write goes through a temp file and a rename so a crash
// mid-write never leaves a truncated artifact behind.
func (s *MessageStore) Save(messages []domain.Message) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmpPath := s.path + ".tmp-" + uuid.NewString()
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encoding message: %w", err)
		}
		if _, err := w.WriteString(escapeNonASCII(string(data)) + "\n"); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing artifact: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flushing artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// Load reads all messages from the artifact. Malformed lines are
// skipped with a warning rather than failing the whole load.
func (s *MessageStore) Load() ([]domain.Message, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	var messages []domain.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg domain.Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			logger.Warn("Skipping malformed artifact line %d: %v", lineNo, err)
			continue
		}
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return messages, nil
}

// escapeNonASCII rewrites runes above 0x7F as \uXXXX JSON escapes,
// using surrogate pairs for runes outside the BMP.
func escapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x80:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
		}
	}
	return b.String()
}
