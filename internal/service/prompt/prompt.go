package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode controls when the final pause happens.
type Mode string

const (
	// ModeAuto pauses only when stdin is an interactive terminal.
	ModeAuto Mode = "auto"
	// ModeAlways pauses on every successful build.
	ModeAlways Mode = "always"
	// ModeNever never pauses.
	ModeNever Mode = "never"
)

// Message is printed before waiting for the operator.
const Message = "Press Enter to close this window..."

// ErrUnknownMode is returned by ParseMode for unsupported values.
var ErrUnknownMode = errors.New("unknown pause mode")

// ParseMode converts a configuration value into a Mode. Empty means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeAlways, ModeNever:
		return mode, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
	}
}

// ShouldPause reports whether the mode asks for a pause in the given session.
func (m Mode) ShouldPause(interactive bool) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return interactive
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// Pause prints Message and blocks until a line or EOF is read from in.
func Pause(in io.Reader, out io.Writer, mode Mode, interactive bool) error {
	if !mode.ShouldPause(interactive) {
		return nil
	}

	if _, err := fmt.Fprint(out, Message); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}

	_, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read acknowledgement: %w", err)
	}

	return nil
}
