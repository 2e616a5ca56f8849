package build

import "time"

// Actor identifies who ran a build.
type Actor struct {
	// Hostname is the machine name where the build ran.
	Hostname string `yaml:"hostname"`
	// Username is the system user who started the build.
	Username string `yaml:"username"`
}

// Manifest records what a successful build produced.
type Manifest struct {
	// VersionNumber is the version of the build tool that ran.
	VersionNumber string `yaml:"version"`
	// PackagerVersion is the version reported by PyInstaller.
	PackagerVersion string `yaml:"packager_version,omitempty"`
	// Artifact is the path of the published executable.
	Artifact string `yaml:"artifact"`
	// Checksum is the base64-encoded SHA-512 of the executable.
	Checksum string `yaml:"checksum"`
	// Options are the packaging options used for the build.
	Options Options `yaml:"options"`
	// BuiltAt is when the executable was published.
	BuiltAt time.Time `yaml:"built_at"`
	// BuiltBy is the actor that ran the build, when it could be detected.
	BuiltBy *Actor `yaml:"built_by,omitempty"`
}

// ManifestFilename returns the manifest file name for the given options.
func ManifestFilename(o Options) string {
	return o.Name() + ".build.yaml"
}
