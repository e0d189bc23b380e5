package main

import (
	"os"

	"github.com/loveloggy/loveloggy/cmd/chat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
