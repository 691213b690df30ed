// Command uxlint lints a node-tree JSON file offline with the same rule
// tables as the server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errLintFailed) {
			fmt.Fprintf(os.Stderr, "uxlint: %v\n", err)
		}
		os.Exit(1)
	}
}
