// Package main is the entry point for the rubus-fetch diagnostic client.
package main

import (
	"os"

	"github.com/rubusproject/rubus/cmd/rubus-fetch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
