package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return cmd.ExitOK
	}
	var ee *cmd.ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			fmt.Fprintln(os.Stderr, ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(os.Stderr, err)
	return cmd.ExitCLIError
}
