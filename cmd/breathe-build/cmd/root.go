package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/breathe-build/internal/config"
	"github.com/oshokin/breathe-build/internal/service/packager"
	"github.com/oshokin/breathe-build/internal/service/process"
	"github.com/oshokin/breathe-build/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string
	// logLevel overrides the level from the settings.
	logLevel string

	// rootCmd runs the whole build.
	rootCmd = &cobra.Command{
		Use:   "breathe-build",
		Short: "Package run_breathe3.py into a standalone windowed executable.",
		Long: `Builds the desktop executable of the breathing exercise application.

Installs PyInstaller when it is missing, packages run_breathe3.py into a single
file without a console window using assets/icon.ico, and places the result in
the dist directory. Safe to start by double-click: the window stays open until
Enter is pressed. Exits with the failing tool's status code.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Canceling kills the running external tool.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the breathe-build CLI and exits with the status of the failed step.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(process.ExitCode(err))
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to settings file (default "+config.DefaultConfigFilename+" when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}
