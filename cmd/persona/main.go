// Command persona builds a reply-style knowledge base from chat
// exports and generates replies in the user's voice.
package main

import (
	"os"

	"github.com/persona-labs/persona-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
