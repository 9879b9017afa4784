// Package visa implements the instrument-communication layer the SCPI
// wrapper sits on: VISA resource names, resource parameters, message-based
// resources over TCP sockets and serial ports, and decoding of ASCII and
// IEEE 488.2 binary values.
//
// A Backend lists and opens resources; the ResourceManager wraps a backend
// with logging. Alternative backends (simulated instruments, the remote
// gateway) live in sub-packages and are selected by the backends package.
package visa
