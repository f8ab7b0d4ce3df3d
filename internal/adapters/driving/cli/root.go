// Package cli implements the persona command-line interface.
// Commands parse flags and delegate to core services; no pipeline
// logic lives here.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/persona-labs/persona-cli/internal/adapters/driven/ai"
	"github.com/persona-labs/persona-cli/internal/adapters/driven/config/file"
	"github.com/persona-labs/persona-cli/internal/adapters/driven/storage/jsonl"
	"github.com/persona-labs/persona-cli/internal/core/domain"
	"github.com/persona-labs/persona-cli/internal/core/ports/driven"
	"github.com/persona-labs/persona-cli/internal/core/services"
	"github.com/persona-labs/persona-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile  string
	verbose  bool
	settings domain.Settings

	// Style and retrieval overrides applied on top of the config file.
	flagEmbeddingBackend string
	flagEmbeddingModel   string
	flagVectorBackend    string
	flagTopK             int
	flagPersonaName      string
	flagLength           string
	flagTone             string
	flagEmojiLevel       string
	flagNoHonesty        bool
	flagMaxTokens        int
)

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Reply in your own voice, grounded on your chat history",
	Long: `Persona builds a retrieval index from a chat export and generates
replies styled on how you actually write. Ingest an export once, then
search the index or ask for a reply to any prompt.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.persona/config.toml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&flagEmbeddingBackend, "embedding-backend", "", "embedding backend (openai or ollama)")
	pf.StringVar(&flagEmbeddingModel, "embedding-model", "", "embedding model name")
	pf.StringVar(&flagVectorBackend, "vector-backend", "", "vector store backend (memory or sqlite)")
	pf.IntVar(&flagTopK, "top-k", 0, "override retrieval top_k")
	pf.StringVar(&flagPersonaName, "persona-name", "", "optional persona name for the prompt")
	pf.StringVar(&flagLength, "length", "", "generation length (short, medium, long)")
	pf.StringVar(&flagTone, "tone", "", "generation tone (casual, neutral, professional)")
	pf.StringVar(&flagEmojiLevel, "emoji-level", "", "emoji usage level (none, low, normal)")
	pf.BoolVar(&flagNoHonesty, "no-honesty", false, "disable the clarifying-question guardrail")
	pf.IntVar(&flagMaxTokens, "max-tokens", 0, "max tokens for generation")
}

// loadSettings reads the config file and layers flag overrides on top.
func loadSettings(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := file.NewSettingsStore(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings = store.Settings()
	logger.Debug("Loaded config from %s", store.Path())

	flags := cmd.Flags()
	if flags.Changed("embedding-backend") {
		backend := domain.EmbeddingBackend(flagEmbeddingBackend)
		if !backend.IsValid() {
			return fmt.Errorf("invalid embedding backend %q", flagEmbeddingBackend)
		}
		settings.Index.EmbeddingBackend = backend
	}
	if flags.Changed("embedding-model") {
		settings.Index.EmbeddingModel = flagEmbeddingModel
	}
	if flags.Changed("vector-backend") {
		backend := domain.VectorBackend(flagVectorBackend)
		if !backend.IsValid() {
			return fmt.Errorf("invalid vector backend %q", flagVectorBackend)
		}
		settings.Index.VectorBackend = backend
	}
	if flags.Changed("top-k") {
		settings.Retrieval.TopK = flagTopK
	}
	if flags.Changed("persona-name") {
		settings.Generation.PersonaName = flagPersonaName
	}
	if flags.Changed("length") {
		settings.Generation.Length = flagLength
	}
	if flags.Changed("tone") {
		settings.Generation.Tone = flagTone
	}
	if flags.Changed("emoji-level") {
		settings.Generation.EmojiLevel = flagEmojiLevel
	}
	if flags.Changed("no-honesty") {
		settings.Generation.Honesty = !flagNoHonesty
	}
	if flags.Changed("max-tokens") {
		settings.Generation.MaxTokens = flagMaxTokens
	}

	// API keys can come from the environment instead of the config file.
	if settings.Index.APIKey == "" {
		settings.Index.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return nil
}

// indexDir returns the directory holding the vector database.
func indexDir() string {
	if settings.Paths.DataDir == "" {
		return ""
	}
	return filepath.Join(settings.Paths.DataDir, "index")
}

// artifactPath returns the canonical message artifact location.
func artifactPath() string {
	if settings.Paths.DataDir == "" {
		return ""
	}
	return filepath.Join(settings.Paths.DataDir, "messages.jsonl")
}

// openMessageStore creates the JSONL artifact store.
func openMessageStore() (driven.MessageStore, error) {
	return jsonl.NewMessageStore(artifactPath())
}

// openRetrievalStack creates a validated embedding service and vector
// store, returning a cleanup function for both.
func openRetrievalStack() (driven.EmbeddingService, driven.VectorStore, func(), error) {
	embedding, err := ai.CreateAndValidateEmbeddingService(settings.Index)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := ai.CreateVectorStore(settings.Index.VectorBackend, indexDir())
	if err != nil {
		embedding.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		store.Close()
		embedding.Close()
	}
	return embedding, store, cleanup, nil
}

// newRetriever wires a retrieve service over the retrieval stack.
func newRetriever() (*services.RetrieveService, func(), error) {
	embedding, store, cleanup, err := openRetrievalStack()
	if err != nil {
		return nil, nil, err
	}
	return services.NewRetrieveService(embedding, store, settings.Retrieval), cleanup, nil
}

// readContextInput resolves recent conversation context from either an
// inline flag or a file. The file wins when both are given.
func readContextInput(contextText, contextFile string) (string, error) {
	if contextFile == "" {
		return contextText, nil
	}
	data, err := os.ReadFile(contextFile)
	if err != nil {
		return "", fmt.Errorf("reading context file: %w", err)
	}
	return string(data), nil
}

// truncateRunes bounds s to at most n runes for display.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// printMatches renders retrieval results with bounded context and
// reply excerpts.
func printMatches(cmd *cobra.Command, matches []domain.RetrievalMatch, contextLimit, replyLimit int, separator string) {
	for i, match := range matches {
		channel, _ := match.Metadata[domain.MetaChannelName].(string)
		timestamp, _ := match.Metadata[domain.MetaTimestamp].(string)

		contextText, _ := match.Metadata[domain.MetaContextText].(string)
		if contextText == "" {
			contextText = match.Document
		}

		cmd.Printf("[%d] score=%.3f channel=%s ts=%s\n", i+1, match.Score, channel, timestamp)
		cmd.Println("Context:")
		cmd.Println(truncateRunes(contextText, contextLimit))
		cmd.Println("Reply:")
		cmd.Println(truncateRunes(match.ReplyText(), replyLimit))
		cmd.Println(separator)
	}
}
