package process

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExitCode covers success, propagated child statuses and generic failures.
func TestExitCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("boom")))

	wrapped := fmt.Errorf("invoke packager: %w", NewExitError("python -m PyInstaller", 3))
	require.Equal(t, 3, ExitCode(wrapped))

	// Killed by a signal.
	require.Equal(t, 1, ExitCode(NewExitError("pip", -1)))
}

// TestExitError_Message includes the command line and raw status.
func TestExitError_Message(t *testing.T) {
	t.Parallel()

	err := NewExitError("python -m pip install pyinstaller", 2)
	require.EqualError(t, err, "python -m pip install pyinstaller: exit status 2")
}

// TestCommand_String renders commands with and without arguments.
func TestCommand_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "python", Command{Name: "python"}.String())
	require.Equal(t, "python -m pip", Command{Name: "python", Args: []string{"-m", "pip"}}.String())
}
