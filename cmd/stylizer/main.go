package main

import (
	"os"

	"neural-stylizer/cmd/stylizer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
