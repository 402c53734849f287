// Command detan anneals pairwise clustering problems described in YAML.
//
// Usage:
//
//	detan validate -c problem.yaml
//	detan run -c problem.yaml [--restarts N] [--parallel P] [--format text|json]
//
// Logs go to stderr; results go to stdout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
