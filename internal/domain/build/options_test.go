package build

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefaultOptions_Args checks the full fixed invocation and that the entry comes last.
func TestDefaultOptions_Args(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	require.Equal(t, []string{
		"--onefile",
		"--noconsole",
		"--icon=assets/icon.ico",
		"--noconfirm",
		"--distpath", "dist",
		"--workpath", "build",
		"--specpath", ".",
		"run_breathe3.py",
	}, opts.Args())
}

// TestOptions_ArgsOnlySetFlags verifies that unset options emit nothing.
func TestOptions_ArgsOnlySetFlags(t *testing.T) {
	t.Parallel()

	opts := Options{
		NoConsole: true,
		Entry:     "app.py",
	}

	require.Equal(t, []string{"--noconsole", "app.py"}, opts.Args())
}

// TestOptions_WithDistDir ensures the copy is redirected and the original left untouched.
func TestOptions_WithDistDir(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	staged := opts.WithDistDir("build/staging")

	require.Equal(t, DefaultDistDir, opts.DistDir)
	require.Equal(t, "build/staging", staged.DistDir)
	require.Contains(t, staged.Args(), "build/staging")
}

// TestOptions_ArtifactName derives the executable name from the entry script.
func TestOptions_ArtifactName(t *testing.T) {
	t.Parallel()

	opts := Options{Entry: "src/run_breathe3.py"}

	require.Equal(t, "run_breathe3", opts.Name())
	require.Equal(t, "run_breathe3.exe", opts.ArtifactName("windows"))
	require.Equal(t, "run_breathe3", opts.ArtifactName("linux"))
	require.Equal(t, "run_breathe3.build.yaml", ManifestFilename(opts))
}

// TestOptions_Validate rejects options that cannot produce an invocation.
func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Entry = " "
	require.ErrorIs(t, opts.Validate(), ErrEntryRequired)

	opts = DefaultOptions()
	opts.DistDir = ""
	require.ErrorIs(t, opts.Validate(), ErrDistDirRequired)
}
