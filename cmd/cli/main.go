// Package main is the entry point for the gym-pricing CLI.
package main

import (
	"fmt"
	"os"

	"gym-pricing/cmd/cli/cmd"
	"gym-pricing/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
