package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes
const (
	ExitSuccess   = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, "\nDownload cancelled.")
		os.Exit(ExitCancelled)
	case errors.Is(err, errRunFailures):
		os.Exit(ExitFailure)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitFailure)
	}
}
