package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andyballingall/workspace-automation/internal/app"
	"github.com/andyballingall/workspace-automation/internal/console"
)

func main() {
	// Console encoding must be set before anything is printed
	if err := console.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not set console code page: %v\n", err)
	}

	// Create context that cancels on SIGINT (Ctrl+C) or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr, nil); err != nil {
		stop()
		//nolint:gocritic // os.Exit is intentional
		os.Exit(1)
	}
}
