// Package main is the entry point for the co2js CLI.
package main

import (
	"os"

	"co2js-plugin/cmd/cli/cmd"
	"co2js-plugin/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
