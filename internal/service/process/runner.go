package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrCommandNotFound indicates that a required command is not on PATH.
var ErrCommandNotFound = errors.New("command not found on PATH")

// Command describes a single external tool invocation.
type Command struct {
	// Name is the executable to run, resolved through PATH.
	Name string
	// Args are passed to the executable as is.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Stdout overrides the runner's standard output when set.
	Stdout io.Writer
	// Stderr overrides the runner's standard error when set.
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner starts external commands and waits for them.
type Runner interface {
	// Run executes the command and blocks until it exits.
	Run(ctx context.Context, cmd Command) error
	// LookPath resolves an executable name through PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// stdout receives the child's standard output unless the command overrides it.
	stdout io.Writer
	// stderr receives the child's standard error unless the command overrides it.
	stderr io.Writer
}

// NewExecRunner creates a runner attached to the current terminal.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// LookPath resolves name through PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}

	return path, nil
}

// Run executes the command without a timeout. Canceling ctx kills the child.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	path, err := r.LookPath(c.Name)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = pickWriter(c.Stdout, r.stdout)
	cmd.Stderr = pickWriter(c.Stderr, r.stderr)

	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitError(c.String(), exitErr.ExitCode())
		}

		return fmt.Errorf("run %s: %w", c.Name, err)
	}

	return nil
}

func pickWriter(preferred, fallback io.Writer) io.Writer {
	if preferred != nil {
		return preferred
	}

	if fallback != nil {
		return fallback
	}

	return io.Discard
}
