// Package version exposes build metadata of breathe-build.
//
// Version, Commit and BuildTime are injected with -ldflags and default to
// values suitable for local builds. The version is also written into every
// build manifest.
package version
