package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cv-editor/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cvtool:", err)
		stop()
		os.Exit(1)
	}
}
