// Package main provides the entry point for the robotd daemon.
package main

import (
	"os"

	"github.com/snowbotix/snowlog/cmd/robotd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
