package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harrison/patterns/internal/runner"
)

// runExample validates the request, spawns the example and relays its
// output. A validation or spawn failure exits 1; a child that exits
// non-zero passes its own status through.
func runExample(ctx context.Context, a *app, pattern, language, variant string) error {
	inv, err := a.resolver.ValidateAndResolve(pattern, language, variant)
	if err != nil {
		a.errOut.Error(err)
		return &ExitError{Code: 1}
	}

	a.out.Running(inv.String())
	a.log.LogDebug(fmt.Sprintf("argv: %q", inv.Args()))

	started := time.Now()
	result, runErr := a.runner.Run(ctx, inv)

	a.recordRun(ctx, inv, result, runErr, started)
	a.writeTranscript(inv, result, runErr, started)

	if runErr != nil && errors.Is(runErr, runner.ErrSpawnFailure) {
		a.errOut.Error(runErr)
		return &ExitError{Code: 1}
	}

	if result != nil {
		if result.Stderr != "" {
			a.errOut.Stderr(result.Stderr)
		}
		a.out.Output(result.Stdout)
		a.log.LogInfo(fmt.Sprintf("%s finished in %s", inv.String(), formatResult(result)))
	}

	if runErr != nil {
		a.errOut.Error(runErr)
		return &ExitError{Code: exitCode(result)}
	}
	return nil
}

// exitCode maps a child's status to the dispatcher's. Signals and
// unknown states become 1.
func exitCode(result *runner.Result) int {
	if result == nil || result.ExitCode <= 0 {
		return 1
	}
	return result.ExitCode
}

func formatResult(result *runner.Result) string {
	return fmt.Sprintf("%s (exit %d)", result.Duration.Round(time.Millisecond), result.ExitCode)
}
