// Command taskdesk tracks projects, tasks and project accesses for a small
// team with owner, manager and employee roles.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeApp()
	if err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}

// printError writes err to stderr. Authorization failures are printed as
// their bare user-facing message.
func printError(err error) {
	var denied *policy.AuthorizationError
	if errors.As(err, &denied) {
		fmt.Fprintln(os.Stderr, denied.Message)
		return
	}
	fmt.Fprintln(os.Stderr, "taskdesk:", err)
}
