package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"

	"github.com/northway/migrator/cli"
	"github.com/northway/migrator/logger"
)

// Version is injected at build time via -ldflags
var version = "dev"

func main() {
	stdout := colorable.NewColorable(os.Stdout)
	stderr := colorable.NewColorable(os.Stderr)

	l := logger.NewDefaultLogger("migrator")
	l.SetOutput(stderr)

	// an interrupt rolls back the in-flight Step and stops the run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Env{
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  l,
		Version: version,
	})
	stop()
	os.Exit(code)
}
