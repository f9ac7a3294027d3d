// Command gvo opens files in a shared, reusable gvim.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/gvo/internal/cmd"
	"github.com/Iron-Ham/gvo/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		cmd.PrintError(os.Stderr, err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}
