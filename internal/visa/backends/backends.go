// Package backends turns a backend selector string into a resource manager.
//
// Selectors follow the "<argument>@<name>" convention:
//
//	""                 default backend (TCP sockets and serial ports)
//	"@py", "@default"  same as above
//	"@sim"             built-in simulated instruments
//	"devices.yaml@sim" simulated instruments from a file
//	"host:port@remote" a gateway serving an instrument over gRPC
package backends

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/easy-scpi/internal/visa"
	"github.com/oshokin/easy-scpi/internal/visa/remote"
	"github.com/oshokin/easy-scpi/internal/visa/sim"
)

// Backend names accepted after the '@'.
const (
	NameDefault = "default"
	NamePy      = "py"
	NameSim     = "sim"
	NameRemote  = "remote"
)

// ErrUnknownBackend is returned for selectors naming no known backend.
var ErrUnknownBackend = errors.New("unknown backend")

// errRemoteAddress is returned when a remote selector has no address.
var errRemoteAddress = errors.New("remote backend needs an address, e.g. 127.0.0.1:5050@remote")

// Split separates a selector into its argument and backend name.
func Split(selector string) (argument, name string) {
	selector = strings.TrimSpace(selector)

	idx := strings.LastIndex(selector, "@")
	if idx < 0 {
		if selector == "" {
			return "", NameDefault
		}

		return selector, ""
	}

	name = strings.ToLower(selector[idx+1:])
	if name == "" {
		name = NameDefault
	}

	return selector[:idx], name
}

// Open builds a resource manager for selector.
func Open(selector string, opts ...remote.Option) (*visa.ResourceManager, error) {
	argument, name := Split(selector)

	var (
		backend visa.Backend
		err     error
	)

	switch name {
	case NameDefault, NamePy:
		if argument != "" {
			return nil, fmt.Errorf("%w: %q takes no argument", ErrUnknownBackend, selector)
		}

		backend = visa.NewDefaultBackend()
	case NameSim:
		backend, err = openSim(argument)
	case NameRemote:
		if argument == "" {
			return nil, errRemoteAddress
		}

		backend, err = remote.NewBackend(argument, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, selector)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}

	return visa.NewResourceManager(selector, backend), nil
}

// openSim loads the simulation definition at path, or the built-in one.
func openSim(path string) (visa.Backend, error) {
	if path == "" {
		return sim.NewDefaultBackend()
	}

	def, err := sim.LoadDefinition(path)
	if err != nil {
		return nil, err
	}

	return sim.NewBackend(def)
}
