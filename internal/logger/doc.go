// Package logger wraps zap for the build tool:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - leveled helpers (Info, InfoKV, WarnKV, etc.).
//
// The build steps take a context and pull the logger out of it, so every
// step logs under the name of the stage that produced the message.
package logger
