package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobboard-admin/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := &cli{out: os.Stdout, in: os.Stdin, newContainer: app.NewContainer}
	if err := newRootCmd(cl).ExecuteContext(ctx); err != nil {
		_ = cl.close()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
