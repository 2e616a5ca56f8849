package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/oshokin/breathe-build/internal/config"
	"github.com/oshokin/breathe-build/internal/domain/build"
	"github.com/oshokin/breathe-build/internal/logger"
	"github.com/oshokin/breathe-build/internal/service/installer"
	"github.com/oshokin/breathe-build/internal/service/process"
	"github.com/oshokin/breathe-build/internal/service/prompt"
)

// Options contains inputs for the build entry point.
type Options struct {
	// ConfigPath is an optional settings file; empty means breathe-build-settings.yaml if present.
	ConfigPath string
	// LogLevel overrides the level from the settings when set.
	LogLevel string
}

var (
	// ErrInputMissing indicates that the entry script or the icon does not exist.
	ErrInputMissing = errors.New("required build input is missing")

	errArtifactInUse       = errors.New("the previously built executable is running")
	errUnexpectedArtifacts = errors.New("unexpected packager output")
)

const (
	// stagingDirname is the directory inside WorkDir receiving packager output.
	stagingDirname = "staging"

	// macAppBundleExtension names the bundle PyInstaller adds for windowed macOS builds.
	macAppBundleExtension = ".app"

	// dirMode is used for directories created by the build.
	dirMode os.FileMode = 0o755
)

// Builder runs a single build. Configure it with Option values and call Build.
type Builder struct {
	// cfg holds the loaded settings.
	cfg *config.Config
	// opts are the packaging options derived from cfg.
	opts build.Options
	// runner executes the interpreter, pip and PyInstaller.
	runner process.Runner
	// installer makes sure PyInstaller is available.
	installer *installer.Installer
	// findRunning lists processes running an executable name.
	findRunning func(name string) ([]int, error)
	// isRunning reports whether a process ID is alive.
	isRunning func(pid int) bool
	// in is read for the operator acknowledgement.
	in io.Reader
	// out receives the completion report.
	out io.Writer
	// interactive tells whether in is a terminal.
	interactive bool
	// goos decides the executable extension.
	goos string
	// now stamps the manifest.
	now func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRunner replaces the command runner.
func WithRunner(runner process.Runner) Option {
	return func(b *Builder) {
		if runner != nil {
			b.runner = runner
		}
	}
}

// WithTerminal sets the operator input and output and whether input is interactive.
func WithTerminal(in io.Reader, out io.Writer, interactive bool) Option {
	return func(b *Builder) {
		b.in = in
		b.out = out
		b.interactive = interactive
	}
}

// WithProcessInspector replaces process lookups.
func WithProcessInspector(findRunning func(name string) ([]int, error), isRunning func(pid int) bool) Option {
	return func(b *Builder) {
		if findRunning != nil {
			b.findRunning = findRunning
		}

		if isRunning != nil {
			b.isRunning = isRunning
		}
	}
}

// WithGOOS sets the target operating system used to name the executable.
func WithGOOS(goos string) Option {
	return func(b *Builder) {
		b.goos = goos
	}
}

// WithClock sets the time source used for the manifest.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Run loads settings and executes the build workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "breathe-build")

	cfg, err := config.Load(opts.ConfigPath, config.WithLogLevel(opts.LogLevel))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// The level was checked by config.Load.
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	builder, err := New(cfg)
	if err != nil {
		return fmt.Errorf("initialize builder: %w", err)
	}

	// The CLI prints the returned error once.
	return builder.Build(ctx)
}

// New creates a Builder for the validated settings.
func New(cfg *config.Config, options ...Option) (*Builder, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:         cfg,
		opts:        cfg.Options(),
		runner:      process.NewExecRunner(),
		findRunning: process.FindRunning,
		isRunning:   process.IsRunning,
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: prompt.IsInteractive(os.Stdin),
		goos:        runtime.GOOS,
		now:         time.Now,
	}

	for _, opt := range options {
		opt(b)
	}

	b.installer = installer.New(b.runner, cfg.Python, cfg.Tool, cfg.ToolModule)

	return b, nil
}

// Build produces the executable and reports it to the operator.
func (b *Builder) Build(ctx context.Context) error {
	artifact, err := b.produce(ctx)
	if err != nil {
		return err
	}

	return b.report(ctx, artifact)
}

// produce holds the build marker while running every step up to publishing.
func (b *Builder) produce(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.opts.WorkDir, dirMode); err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}

	lock, err := acquireMarker(ctx, filepath.Join(b.opts.WorkDir, MarkerFilename), b.isRunning)
	if err != nil {
		return "", err
	}

	defer lock.release(ctx)

	logger.Info(ctx, "Checking build inputs")

	if err = b.preflight(ctx); err != nil {
		return "", err
	}

	logger.Info(ctx, "Ensuring the packaging tool is installed")

	toolVersion, err := b.installer.Ensure(ctx)
	if err != nil {
		return "", fmt.Errorf("ensure packaging tool: %w", err)
	}

	logger.InfoKV(ctx, "Packaging the application", "entry", b.opts.Entry)

	staged, err := b.pack(ctx)
	if err != nil {
		return "", err
	}

	artifact, checksum, err := b.publish(ctx, staged)
	if err != nil {
		return "", err
	}

	manifest := newManifest(ctx, b.opts, toolVersion, artifact, checksum, b.now())
	if err = b.saveManifest(ctx, manifest); err != nil {
		return "", err
	}

	return artifact, nil
}

// preflight fails fast on missing inputs and on a running previous build.
func (b *Builder) preflight(ctx context.Context) error {
	if err := requireFile("entry script", b.opts.Entry); err != nil {
		return err
	}

	if b.opts.Icon != "" {
		if err := requireFile("icon", b.opts.Icon); err != nil {
			return err
		}
	}

	name := b.opts.ArtifactName(b.goos)

	pids, err := b.findRunning(name)
	if err != nil {
		logger.WarnKV(ctx, "Unable to check running processes", "error", err)
		return nil
	}

	if len(pids) > 0 {
		return fmt.Errorf("%s (pid %v): %w", name, pids, errArtifactInUse)
	}

	return nil
}

// pack runs PyInstaller into a clean staging directory and returns the staged executable.
func (b *Builder) pack(ctx context.Context) (string, error) {
	stagingDir := filepath.Join(b.opts.WorkDir, stagingDirname)
	if err := os.RemoveAll(stagingDir); err != nil {
		return "", fmt.Errorf("clean staging directory: %w", err)
	}

	staged := b.opts.WithDistDir(stagingDir)

	cmd := process.Command{
		Name: b.cfg.Python,
		Args: append([]string{"-m", b.cfg.ToolModule}, staged.Args()...),
	}

	logger.DebugKV(ctx, "Running packager", "command", cmd.String())

	if err := b.runner.Run(ctx, cmd); err != nil {
		return "", fmt.Errorf("invoke packager: %w", err)
	}

	return b.stagedArtifact(stagingDir)
}

// stagedArtifact checks that the packager produced exactly the expected executable.
func (b *Builder) stagedArtifact(dir string) (string, error) {
	want := b.opts.ArtifactName(b.goos)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read packager output: %w", err)
	}

	// Windowed builds on macOS also get an .app bundle beside the executable.
	if b.goos == "darwin" {
		entries = slices.DeleteFunc(entries, func(entry os.DirEntry) bool {
			return entry.IsDir() && entry.Name() == b.opts.Name()+macAppBundleExtension
		})
	}

	if len(entries) == 1 && entries[0].Name() == want && entries[0].Type().IsRegular() {
		return filepath.Join(dir, want), nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return "", fmt.Errorf("expected only %s in %s, found %v: %w", want, dir, names, errUnexpectedArtifacts)
}

// report prints where the executable is and waits for the operator.
func (b *Builder) report(ctx context.Context, artifact string) error {
	logger.InfoKV(ctx, "Build completed", "artifact", artifact)

	if _, err := fmt.Fprintf(b.out, "\nBuild complete. The executable is at %s\n", artifact); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return prompt.Pause(b.in, b.out, b.cfg.PauseMode(), b.interactive)
}

func requireFile(label, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s %s: %w", label, path, ErrInputMissing)
	}

	if err != nil {
		return fmt.Errorf("stat %s %s: %w", label, path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s %s is a directory: %w", label, path, ErrInputMissing)
	}

	return nil
}
