package build

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	// DefaultEntry is the application entry point packaged by default.
	DefaultEntry = "run_breathe3.py"
	// DefaultIcon is the icon resource embedded into the executable.
	DefaultIcon = "assets/icon.ico"
	// DefaultDistDir is where PyInstaller places finished executables.
	DefaultDistDir = "dist"
	// DefaultWorkDir is where PyInstaller keeps intermediate artifacts.
	DefaultWorkDir = "build"
	// DefaultSpecDir is where PyInstaller writes the generated .spec file.
	DefaultSpecDir = "."

	windowsExecutableExtension = ".exe"
)

var (
	// ErrEntryRequired is returned when no entry script is configured.
	ErrEntryRequired = errors.New("entry script must be provided")
	// ErrDistDirRequired is returned when no output directory is configured.
	ErrDistDirRequired = errors.New("output directory must be provided")
)

// Options is the complete set of packaging options the build recognizes.
type Options struct {
	// SingleFile bundles everything into one executable (--onefile).
	SingleFile bool `yaml:"single_file"`
	// NoConsole launches the executable without a console window (--noconsole).
	NoConsole bool `yaml:"no_console"`
	// Icon is the icon resource embedded into the executable (--icon).
	Icon string `yaml:"icon,omitempty"`
	// NoConfirm replaces previous output without asking (--noconfirm).
	NoConfirm bool `yaml:"no_confirm"`
	// Entry is the application entry point, passed last.
	Entry string `yaml:"entry"`
	// DistDir is the output directory (--distpath).
	DistDir string `yaml:"dist_dir"`
	// WorkDir holds intermediate build files (--workpath).
	WorkDir string `yaml:"work_dir"`
	// SpecDir receives the generated .spec file (--specpath).
	SpecDir string `yaml:"spec_dir"`
}

// DefaultOptions returns the fixed configuration used to package the application.
func DefaultOptions() Options {
	return Options{
		SingleFile: true,
		NoConsole:  true,
		Icon:       DefaultIcon,
		NoConfirm:  true,
		Entry:      DefaultEntry,
		DistDir:    DefaultDistDir,
		WorkDir:    DefaultWorkDir,
		SpecDir:    DefaultSpecDir,
	}
}

// Validate checks that the options can be rendered into a packager invocation.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Entry) == "" {
		return ErrEntryRequired
	}

	if strings.TrimSpace(o.DistDir) == "" {
		return ErrDistDirRequired
	}

	return nil
}

// WithDistDir returns a copy of the options writing into another output directory.
func (o Options) WithDistDir(dir string) Options {
	o.DistDir = dir

	return o
}

// Args renders the options as PyInstaller arguments. Flags come in a fixed
// order and the entry script is always the last argument.
func (o Options) Args() []string {
	args := make([]string, 0, 11)

	if o.SingleFile {
		args = append(args, "--onefile")
	}

	if o.NoConsole {
		args = append(args, "--noconsole")
	}

	if o.Icon != "" {
		args = append(args, "--icon="+o.Icon)
	}

	if o.NoConfirm {
		args = append(args, "--noconfirm")
	}

	if o.DistDir != "" {
		args = append(args, "--distpath", o.DistDir)
	}

	if o.WorkDir != "" {
		args = append(args, "--workpath", o.WorkDir)
	}

	if o.SpecDir != "" {
		args = append(args, "--specpath", o.SpecDir)
	}

	return append(args, o.Entry)
}

// Name is the entry script base name without its extension.
// PyInstaller names the executable after it.
func (o Options) Name() string {
	base := filepath.Base(o.Entry)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ArtifactName returns the executable file name produced for the target OS.
func (o Options) ArtifactName(goos string) string {
	if goos == "windows" {
		return o.Name() + windowsExecutableExtension
	}

	return o.Name()
}
