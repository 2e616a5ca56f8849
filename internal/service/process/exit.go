package process

import (
	"errors"
	"fmt"
)

// ExitError reports an external command that exited with a nonzero status.
type ExitError struct {
	// Command is the rendered command line.
	Command string
	// code is the raw exit status; negative when the child was killed by a signal.
	code int
}

// NewExitError creates an ExitError for the command and its exit status.
func NewExitError(command string, code int) *ExitError {
	return &ExitError{
		Command: command,
		code:    code,
	}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.code)
}

// Code returns the exit status to propagate. Signals and unknown statuses map to 1.
func (e *ExitError) Code() int {
	if e.code <= 0 {
		return 1
	}

	return e.code
}

// ExitCode maps an error to a process exit code: 0 for nil, the child's
// status for a wrapped *ExitError, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code()
	}

	return 1
}
