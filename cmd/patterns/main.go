package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/harrison/patterns/internal/cmd"
)

// Version is the current version of the patterns application
const Version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree and returns the process exit status.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cmd.Version == "dev" {
		cmd.Version = Version
	}

	rootCmd := cmd.NewRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
