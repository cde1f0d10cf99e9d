// Package main is the entry point for the gtodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gtodo/internal/cli"
	"gtodo/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A nil factory opens the configured storage.
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
