// Package main is the entry point for the Rubus server daemon.
package main

import (
	"os"

	"github.com/rubusproject/rubus/cmd/rubusd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
