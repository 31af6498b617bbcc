// Package main is the entry point for the corpuscheck CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/corpuscheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
