// Package main is the entry point for the washwatch CLI.
package main

import (
	"os"

	"github.com/washwatch/washwatch/cmd/washwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
