// Package main is the entry point for the flowpipe CLI.
//
// Usage:
//
//	flowpipe [flags] <command> [args]
//
// Commands:
//
//	bench    - FIFO throughput benchmark across pipe backends
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/flowpipe/flowpipe/cmd/flowpipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
