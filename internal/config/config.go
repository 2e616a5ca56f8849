package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/breathe-build/internal/domain/build"
	"github.com/oshokin/breathe-build/internal/logger"
	"github.com/oshokin/breathe-build/internal/service/prompt"
)

// Config holds the settings of a build run.
type Config struct {
	// Python is the interpreter used to run pip and PyInstaller.
	Python string `yaml:"python" env:"BREATHE_BUILD_PYTHON"`
	// Tool is the pip package providing the packager.
	Tool string `yaml:"tool"`
	// ToolModule is the Python module executed with -m to run the packager.
	ToolModule string `yaml:"tool_module"`
	// Entry is the application entry script.
	Entry string `yaml:"entry"`
	// Icon is the icon resource embedded into the executable.
	Icon string `yaml:"icon"`
	// DistDir receives the finished executable.
	DistDir string `yaml:"dist_dir"`
	// WorkDir receives intermediate artifacts, the build marker and the manifest.
	WorkDir string `yaml:"work_dir"`
	// SpecDir receives the generated .spec file.
	SpecDir string `yaml:"spec_dir"`
	// Pause is the acknowledgement mode: auto, always or never.
	Pause string `yaml:"pause" env:"BREATHE_BUILD_PAUSE"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level" env:"BREATHE_BUILD_LOG_LEVEL"`
}

// Option adjusts loaded settings before they are validated.
type Option func(*Config)

// WithLogLevel overrides the log level when level is not empty.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		if strings.TrimSpace(level) != "" {
			c.LogLevel = level
		}
	}
}

const (
	// DefaultConfigFilename is the settings file looked up when no path is given.
	DefaultConfigFilename = "breathe-build-settings.yaml"

	// DefaultTool is the pip package name of the packager.
	DefaultTool = "pyinstaller"

	// DefaultToolModule is the importable module name of the packager.
	DefaultToolModule = "PyInstaller"

	// DefaultFilePermissions is the permission used for files written by the tool.
	DefaultFilePermissions = 0o644

	// DotEnvFilename is loaded into the environment when present.
	DotEnvFilename = ".env"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for log levels the logger cannot parse.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	opts := build.DefaultOptions()

	return &Config{
		Python:     DefaultPython(runtime.GOOS),
		Tool:       DefaultTool,
		ToolModule: DefaultToolModule,
		Entry:      opts.Entry,
		Icon:       opts.Icon,
		DistDir:    opts.DistDir,
		WorkDir:    opts.WorkDir,
		SpecDir:    opts.SpecDir,
		Pause:      string(prompt.ModeAuto),
		LogLevel:   "info",
	}
}

// DefaultPython returns the interpreter name commonly on PATH for goos.
func DefaultPython(goos string) string {
	if goos == "windows" {
		return "python"
	}

	return "python3"
}

// Load reads settings from path, applies environment overrides, then options,
// and validates the result. An empty path means DefaultConfigFilename, which
// may be absent.
func Load(path string, options ...Option) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = godotenv.Load(DotEnvFilename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFilename, err)
	}

	if err = env.Load(cfg, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for _, opt := range options {
		opt(cfg)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills empty fields with defaults and checks enumerated values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	defaults := Default()

	fillEmpty(&cfg.Python, defaults.Python)
	fillEmpty(&cfg.Tool, defaults.Tool)
	fillEmpty(&cfg.ToolModule, defaults.ToolModule)
	fillEmpty(&cfg.Entry, defaults.Entry)
	fillEmpty(&cfg.DistDir, defaults.DistDir)
	fillEmpty(&cfg.WorkDir, defaults.WorkDir)
	fillEmpty(&cfg.SpecDir, defaults.SpecDir)

	mode, err := prompt.ParseMode(cfg.Pause)
	if err != nil {
		return err
	}

	cfg.Pause = string(mode)

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	return cfg.Options().Validate()
}

// Options converts the settings into the packaging options. Single-file,
// windowed and no-confirm are always on.
func (c *Config) Options() build.Options {
	return build.Options{
		SingleFile: true,
		NoConsole:  true,
		Icon:       c.Icon,
		NoConfirm:  true,
		Entry:      c.Entry,
		DistDir:    c.DistDir,
		WorkDir:    c.WorkDir,
		SpecDir:    c.SpecDir,
	}
}

// PauseMode returns the parsed acknowledgement mode.
func (c *Config) PauseMode() prompt.Mode {
	mode, err := prompt.ParseMode(c.Pause)
	if err != nil {
		return prompt.ModeAuto
	}

	return mode
}

func fillEmpty(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
