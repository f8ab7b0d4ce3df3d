package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/persona-labs/persona-cli/internal/adapters/driven/ai"
	"github.com/persona-labs/persona-cli/internal/core/services"
)

var (
	replyPrompt        string
	replyContext       string
	replyContextFile   string
	replyShowRetrieval bool
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Generate a reply in your voice",
	Long: `Retrieves examples of how you reply in similar situations and asks
the configured LLM for a new reply styled on them.`,
	RunE: runReply,
}

func init() {
	replyCmd.Flags().StringVar(&replyPrompt, "prompt", "", "prompt to respond to (required)")
	replyCmd.Flags().StringVar(&replyContext, "context", "", "recent conversation context")
	replyCmd.Flags().StringVar(&replyContextFile, "context-file", "", "file containing recent conversation context")
	replyCmd.Flags().BoolVar(&replyShowRetrieval, "show-retrieval", false, "print retrieved examples after the reply")
	replyCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, _ []string) error {
	recentContext, err := readContextInput(replyContext, replyContextFile)
	if err != nil {
		return err
	}

	retriever, cleanup, err := newRetriever()
	if err != nil {
		return err
	}
	defer cleanup()

	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		return err
	}
	defer llm.Close()

	svc := services.NewReplyService(retriever, llm, settings.Generation)
	result, err := svc.Reply(context.Background(), replyPrompt, recentContext)
	if err != nil {
		return err
	}

	cmd.Println(result.Reply)

	if replyShowRetrieval {
		cmd.Println("\n--- Retrieved examples ---")
		printMatches(cmd, result.Retrieval, 400, 200, "------------------------------")
	}
	return nil
}
