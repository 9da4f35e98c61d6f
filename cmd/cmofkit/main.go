package main

import (
	"os"

	"github.com/cmofkit/cmofkit/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
