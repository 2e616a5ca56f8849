// Package prompt holds the operator acknowledgement shown after a build:
// the pause modes and the interactive terminal check that decides whether
// the auto mode waits for Enter.
package prompt
