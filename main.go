package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jammy0903/C-ode-to-you-sub001/cmd"
)

func main() {
	// API keys may come from a local .env during development; a missing
	// file is the normal installed case.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
