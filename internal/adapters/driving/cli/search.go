package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	searchQuery       string
	searchContext     string
	searchContextFile string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the index for relevant reply examples",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "query text / prompt (required)")
	searchCmd.Flags().StringVar(&searchContext, "context", "", "recent conversation context")
	searchCmd.Flags().StringVar(&searchContextFile, "context-file", "", "file containing recent conversation context")
	searchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	recentContext, err := readContextInput(searchContext, searchContextFile)
	if err != nil {
		return err
	}

	retriever, cleanup, err := newRetriever()
	if err != nil {
		return err
	}
	defer cleanup()

	matches, err := retriever.Retrieve(context.Background(), searchQuery, recentContext)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		cmd.Println("No results found. Did you build the index?")
		return nil
	}

	printMatches(cmd, matches, 500, 300, "----------------------------------------")
	return nil
}
