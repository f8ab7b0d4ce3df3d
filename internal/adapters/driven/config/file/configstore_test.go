package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-labs/persona-cli/internal/core/domain"
)

func TestNewSettingsStoreDefaultsWhenMissing(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	settings := store.Settings()
	assert.Equal(t, domain.DefaultSettings(), settings)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.InDelta(t, 0.95, settings.Retrieval.DedupeThreshold, 1e-9)
}

func TestSettingsStorePartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
self_id = "12345"

[retrieval]
top_k = 3

[index]
embedding_backend = "ollama"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings := store.Settings()
	assert.Equal(t, "12345", settings.SelfID)
	assert.Equal(t, 3, settings.Retrieval.TopK)
	assert.Equal(t, domain.EmbeddingBackendOllama, settings.Index.EmbeddingBackend)
	// Untouched values keep their defaults
	assert.InDelta(t, 0.95, settings.Retrieval.DedupeThreshold, 1e-9)
	assert.Equal(t, 32, settings.Index.BatchSize)
}

func TestSettingsStoreUpdateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings := store.Settings()
	settings.SelfID = "99"
	settings.Retrieval.TopK = 5
	settings.Generation.PersonaName = "me"
	require.NoError(t, store.Update(settings))

	reloaded, err := NewSettingsStore(path)
	require.NoError(t, err)
	got := reloaded.Settings()
	assert.Equal(t, "99", got.SelfID)
	assert.Equal(t, 5, got.Retrieval.TopK)
	assert.Equal(t, "me", got.Generation.PersonaName)
}

func TestSettingsStoreInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o600))

	_, err := NewSettingsStore(path)
	assert.Error(t, err)
}
