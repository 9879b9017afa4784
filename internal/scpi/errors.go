package scpi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by I/O before Connect or after Disconnect.
	ErrNotConnected = errors.New("instrument not connected")
	// ErrNoResourceID is returned by Connect when no port or resource id was set.
	ErrNoResourceID = errors.New("can not connect, no resource id provided")
	// ErrInvalidPort is returned for ports that can not name a resource.
	ErrInvalidPort = errors.New("invalid port")
	// ErrNoMatchingResource is returned when no listed resource matches the port.
	ErrNoMatchingResource = errors.New("could not find resource")
	// ErrMultipleResources is returned when more than one listed resource matches the port.
	ErrMultipleResources = errors.New("found multiple resources")
	// ErrInvalidValue is returned by ValToBool for unrecognized input.
	ErrInvalidValue = errors.New("invalid input")
	// ErrNotMessageBased is returned by raw and binary operations on resources without raw reads.
	ErrNotMessageBased = errors.New("operation requires a message based resource")
)

// HandshakeError is returned when the message read after a command is not the handshake.
type HandshakeError struct {
	// Expected is the configured handshake message.
	Expected string
	// Received is what the instrument sent instead.
	Received string
}

// Error implements error.
func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake mismatch: expected %q, received %q", e.Expected, e.Received)
}
