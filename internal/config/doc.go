// Package config defines the build settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings come from an optional YAML file, then from the environment
// (a .env file in the working directory is loaded first).
package config
