// Package export parses raw chat-history exports into a flat,
// order-preserving sequence of schema-normalised raw message records.
//
// Three container kinds are supported and resolved once at entry:
// an archive of per-channel JSON files, a directory tree of JSON/JSONL
// files, and a single JSON/JSONL file. All three yield the same record
// stream type so downstream handling is uniform.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// indexFileName is the reserved per-export metadata file skipped
// during directory walks.
const indexFileName = "index.json"

// Parse reads a raw export and returns its raw message records.
// Corrupt entries and malformed records are skipped with a logged
// warning; no failure from a single bad record escapes this function.
// Returns domain.ErrUnsupportedInput when the path is neither an
// archive, a directory, nor a recognised single file.
func Parse(path string, excludeChannels []string) ([]domain.RawMessage, error) {
	exclude := make(map[string]struct{}, len(excludeChannels))
	for _, c := range excludeChannels {
		exclude[strings.ToLower(c)] = struct{}{}
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return parseArchive(path, exclude)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}
	if info.IsDir() {
		return parseDirectory(path, exclude)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		return parseSingleFile(path, exclude)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedInput, path)
}

// skipChannel reports whether a channel is excluded. Matching is
// case-insensitive against both the channel name and id.
func skipChannel(exclude map[string]struct{}, channelName, channelID string) bool {
	if len(exclude) == 0 {
		return false
	}
	if _, ok := exclude[strings.ToLower(channelName)]; ok {
		return true
	}
	_, ok := exclude[strings.ToLower(channelID)]
	return ok
}

// fileStem returns the file name without directory or extension.
func fileStem(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseArchive enumerates per-channel JSON entries inside a zip
// export. Only entries whose lowercase name ends in ".json" and
// contains a "messages" or "_page_" token are considered; the channel
// identity is the entry filename stem.
func parseArchive(path string, exclude map[string]struct{}) ([]domain.RawMessage, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var messages []domain.RawMessage
	for _, entry := range zr.File {
		lower := strings.ToLower(entry.Name)
		if !strings.HasSuffix(lower, ".json") {
			continue
		}
		if !strings.Contains(lower, "messages") && !strings.Contains(lower, "_page_") {
			continue
		}

		channel := fileStem(entry.Name)
		if skipChannel(exclude, channel, channel) {
			continue
		}

		payload, err := readArchiveEntry(entry)
		if err != nil {
			logger.Warn("skipping %s: %v", entry.Name, err)
			continue
		}

		for _, rec := range archiveRecords(payload) {
			messages = append(messages, resolveRecord(rec, channel, channel))
		}
	}
	return messages, nil
}

// readArchiveEntry decodes one archive entry as a JSON payload.
func readArchiveEntry(entry *zip.File) (any, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

// decodeJSON parses bytes into a generic JSON value, keeping numbers
// as json.Number so large message ids survive string coercion.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// objectItems filters a JSON list down to its object elements.
func objectItems(items []any) []map[string]any {
	var records []map[string]any
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, obj)
		}
	}
	return records
}

// archiveRecords extracts message objects from an archive-entry
// payload: the "messages" list of an object payload or a top-level
// list payload. Object payloads without a "messages" key yield
// nothing; the any-list-field fallback is for loose files only.
func archiveRecords(payload any) []map[string]any {
	switch p := payload.(type) {
	case map[string]any:
		if items, ok := p["messages"].([]any); ok {
			return objectItems(items)
		}
	case []any:
		return objectItems(p)
	}
	return nil
}

// payloadRecords extracts candidate message objects from a decoded
// payload of a directory or single-file export: the "messages" list
// of an object payload, every object of a list payload, or the object
// items of any list-valued field when no "messages" key exists.
func payloadRecords(payload any) []map[string]any {
	switch p := payload.(type) {
	case map[string]any:
		if msgs, ok := p["messages"]; ok {
			if items, ok := msgs.([]any); ok {
				return objectItems(items)
			}
			return nil
		}
		var records []map[string]any
		for _, value := range p {
			if items, ok := value.([]any); ok {
				records = append(records, objectItems(items)...)
			}
		}
		return records
	case []any:
		return objectItems(p)
	}
	return nil
}

// hasMessageShape reports whether a record carries at least one
// recognised content or timestamp key. Directory trees often mix
// message files with unrelated metadata; this tolerates schema drift
// without pulling in junk records.
func hasMessageShape(rec map[string]any) bool {
	for _, key := range []string{"content", "Content", "Message", "timestamp", "Timestamp"} {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}

// parseDirectory recursively walks an export directory. JSON files use
// the parent directory name as channel identity (or the file stem at
// the root) and require message-shaped records; JSONL files use the
// file stem and are read one object per line.
func parseDirectory(root string, exclude map[string]struct{}) ([]domain.RawMessage, error) {
	var jsonFiles, jsonlFiles []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			if strings.EqualFold(d.Name(), indexFileName) {
				return nil
			}
			jsonFiles = append(jsonFiles, path)
		case ".jsonl":
			jsonlFiles = append(jsonlFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk export: %w", err)
	}

	var messages []domain.RawMessage
	for _, file := range jsonFiles {
		channel := directoryChannel(root, file)
		if skipChannel(exclude, channel, channel) {
			continue
		}
		messages = append(messages, parseJSONFile(file, channel)...)
	}
	for _, file := range jsonlFiles {
		channel := fileStem(file)
		if skipChannel(exclude, channel, channel) {
			continue
		}
		messages = append(messages, parseJSONLFile(file, channel)...)
	}
	return messages, nil
}

// directoryChannel derives the channel identity for a JSON file inside
// a directory export: the parent directory name, or the file stem when
// the file sits at the export root.
func directoryChannel(root, file string) string {
	parent := filepath.Dir(file)
	if filepath.Clean(parent) == filepath.Clean(root) {
		return fileStem(file)
	}
	return filepath.Base(parent)
}

// parseJSONFile reads one JSON file of a directory export. Files with
// zero message-shaped records are skipped entirely.
func parseJSONFile(path, channel string) []domain.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return nil
	}
	payload, err := decodeJSON(data)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return nil
	}

	var messages []domain.RawMessage
	for _, rec := range payloadRecords(payload) {
		if !hasMessageShape(rec) {
			continue
		}
		messages = append(messages, resolveRecord(rec, channel, channel))
	}
	if len(messages) == 0 {
		logger.Debug("skipping %s (no message-like records)", path)
	}
	return messages
}

// parseJSONLFile reads one JSON object per line, silently skipping
// malformed or non-object lines.
func parseJSONLFile(path, channel string) []domain.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return nil
	}

	var messages []domain.RawMessage
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		payload, err := decodeJSON([]byte(line))
		if err != nil {
			continue
		}
		rec, ok := payload.(map[string]any)
		if !ok {
			continue
		}
		messages = append(messages, resolveRecord(rec, channel, channel))
	}
	return messages
}

// parseSingleFile handles a bare JSON or JSONL export file. The
// channel identity is the file stem.
func parseSingleFile(path string, exclude map[string]struct{}) ([]domain.RawMessage, error) {
	channel := fileStem(path)
	if skipChannel(exclude, channel, channel) {
		return nil, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return parseJSONLFile(path, channel), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	payload, err := decodeJSON(data)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return nil, nil
	}

	var messages []domain.RawMessage
	for _, rec := range payloadRecords(payload) {
		messages = append(messages, resolveRecord(rec, channel, channel))
	}
	return messages, nil
}
