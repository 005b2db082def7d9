// internal/executil/executil.go
package executil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Exec runs external commands with inherited stdout/stderr. With DryRun
// set, commands are printed instead of executed.
type Exec struct {
	DryRun bool
}

// Run executes the given command, streaming output to the process
// stdout/stderr. The context cancels the child process.
func (e Exec) Run(ctx context.Context, name string, args ...string) error {
	fullCmd := name + " " + ShellQuoteArgs(args)
	return e.runCore(ctx, name, args, fullCmd)
}

// RunRedacted is like Run but logs the display form of the command line
// instead of the real one. Used when args carry credentials (e.g.
// docker login -p).
func (e Exec) RunRedacted(ctx context.Context, display []string, name string, args ...string) error {
	fullCmd := name + " " + ShellQuoteArgs(display)
	return e.runCore(ctx, name, args, fullCmd)
}

func (e Exec) runCore(ctx context.Context, name string, args []string, fullCmd string) error {
	if e.DryRun {
		fmt.Printf("[DRY RUN] %s\n", fullCmd)
		return nil
	}
	fmt.Printf("Running: %s\n", fullCmd)

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		// include exit status if available
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				return fmt.Errorf("command failed (exit=%d): %s: %w", status.ExitStatus(), fullCmd, err)
			}
		}
		// context cancellations/timeouts show clearly
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("command canceled: %s", fullCmd)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("command timed out: %s", fullCmd)
		}
		return fmt.Errorf("failed to run command: %s: %w", fullCmd, err)
	}
	return nil
}

// ShellQuoteArgs returns a printable, shell-safe representation of args.
func ShellQuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'`$\\*?[]{}()<>|&;") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
