// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing console-encoded lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services and resources accept a context and extract the logger from it,
// so a resource name or request id attached once shows up on every line.
package logger
