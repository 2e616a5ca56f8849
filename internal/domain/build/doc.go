// Package build describes a packaging run: the fixed option set handed to
// PyInstaller, the artifact name derived from the entry script, and the
// manifest recorded after a successful build.
package build
