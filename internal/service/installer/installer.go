package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/breathe-build/internal/logger"
	"github.com/oshokin/breathe-build/internal/service/process"
)

// ErrToolUnavailable is returned when the tool still cannot run after installation.
var ErrToolUnavailable = errors.New("packaging tool is not available after installation")

// Installer ensures a pip-installable tool is available.
type Installer struct {
	// runner executes the interpreter.
	runner process.Runner
	// python is the interpreter used for pip and the tool.
	python string
	// pkg is the pip package name.
	pkg string
	// module is the Python module run with -m.
	module string
}

// New creates an Installer running pkg's module through python.
func New(runner process.Runner, python, pkg, module string) *Installer {
	return &Installer{
		runner: runner,
		python: python,
		pkg:    pkg,
		module: module,
	}
}

// Ensure returns the version of the tool, installing it first if absent.
// Any failure here aborts the build.
func (i *Installer) Ensure(ctx context.Context) (string, error) {
	ctx = logger.WithKV(ctx, "tool", i.pkg)

	if _, err := i.runner.LookPath(i.python); err != nil {
		return "", fmt.Errorf("python interpreter: %w", err)
	}

	if toolVersion, err := i.Version(ctx); err == nil {
		logger.InfoKV(ctx, "Packaging tool is already installed", "version", toolVersion)

		return toolVersion, nil
	}

	logger.Info(ctx, "Installing the packaging tool")

	install := process.Command{
		Name: i.python,
		Args: []string{"-m", "pip", "install", i.pkg},
	}

	if err := i.runner.Run(ctx, install); err != nil {
		return "", fmt.Errorf("install %s: %w", i.pkg, err)
	}

	toolVersion, err := i.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", i.pkg, ErrToolUnavailable)
	}

	logger.InfoKV(ctx, "Packaging tool installed", "version", toolVersion)

	return toolVersion, nil
}

// Version runs the tool's --version probe quietly and returns its output.
func (i *Installer) Version(ctx context.Context) (string, error) {
	var out bytes.Buffer

	probe := process.Command{
		Name:   i.python,
		Args:   []string{"-m", i.module, "--version"},
		Stdout: &out,
		Stderr: io.Discard,
	}

	if err := i.runner.Run(ctx, probe); err != nil {
		return "", err
	}

	return strings.TrimSpace(out.String()), nil
}
