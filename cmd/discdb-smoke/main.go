// Command discdb-smoke runs the list, insert, delete sequence against a
// running discdb server and exits non-zero on the first failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/maruel/discdb/internal/smoke"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "discdb-smoke: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	baseURL := flag.String("url", "http://localhost:3000", "Base URL of the server")
	wait := flag.Duration("wait", 10*time.Second, "How long to wait for the server to become healthy")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	c := smoke.NewClient(*baseURL, nil)
	waitCtx, cancel := context.WithTimeout(ctx, *wait)
	err := smoke.WaitReady(waitCtx, c, 200*time.Millisecond)
	cancel()
	if err != nil {
		return err
	}
	if err := smoke.Run(ctx, c); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Smoke test passed", "url", *baseURL)
	return nil
}
