// Package process runs the external tools of a build.
//
// Commands block until the child exits and stream its output to the
// operator. A nonzero exit is reported as *ExitError so the CLI can exit
// with the same code. It also inspects running processes through go-ps.
package process
