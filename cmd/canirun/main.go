package main

import (
	"canirun/internal/api"
	"canirun/internal/extract"
	"canirun/internal/service"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

const (
	exitOK = iota
	exitUsage
	exitGame
	exitExtraction
)

// errUsage marks bad flags, arguments or prompt answers.
var errUsage = errors.New("invalid input")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr, stdinIsTerminal)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var extractionErr *extract.ExtractionError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, api.ErrInvalidGameIdentifier):
		return exitGame
	case errors.Is(err, service.ErrExtraction), errors.As(err, &extractionErr):
		return exitExtraction
	default:
		// bad input, config and probe failures
		return exitUsage
	}
}
