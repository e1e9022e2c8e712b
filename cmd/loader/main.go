package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/graphloader/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := app.ParseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		return 1
	}
	defer application.Close()

	if _, err := application.Run(ctx); err != nil {
		application.Log.Error("load failed", "error", err)
		return 1
	}
	return 0
}
