package main

import (
	"os"

	"github.com/subosito/gotenv"

	"github.com/shinsei-trade/permit-ledger/internal/commands"
)

func main() {
	// Credentials such as OPENAI_API_KEY may live in a local .env file.
	_ = gotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
