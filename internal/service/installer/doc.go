// Package installer makes sure the packaging tool can be run before a build.
//
// It probes the tool through the configured Python interpreter and installs
// it with pip only when the probe fails.
package installer
