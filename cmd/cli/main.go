package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tracetrail/tracetrail/internal/client/cli"
	"github.com/tracetrail/tracetrail/internal/client/config"
	"github.com/tracetrail/tracetrail/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tracetrail:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	// SIGINT keeps its default; the REPL blocks on stdin.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// leaving the REPL ends the metrics server too
		defer stop()
		return app.Run(gctx)
	})
	g.Go(func() error {
		return app.ServeMetrics(gctx)
	})
	return g.Wait()
}
