package main

import (
	"context"
	"os"

	"github.com/asynkron/patchscope/internal/cli"
)

// main wires the process streams into the CLI entry point.
func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
