package main

import (
	"os"

	"github.com/mozilla-ai/outline-mcp/cmd"
)

func main() {
	// Cobra reports the error itself.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
