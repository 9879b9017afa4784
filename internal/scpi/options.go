package scpi

import (
	"maps"
	"runtime"

	"github.com/oshokin/easy-scpi/internal/visa"
	"github.com/oshokin/easy-scpi/internal/visa/remote"
)

// DefaultHandshake is the handshake message selected by WithHandshake(true).
const DefaultHandshake = "OK"

// DefaultSeparator joins property arguments.
const DefaultSeparator = ","

// options collect the Instrument settings before it is built.
type options struct {
	// port is resolved into a resource id on construction.
	port string
	// rid is used as is when port is empty.
	rid string
	// portMatch verifies the port against listed resources.
	portMatch bool
	// backend is the backend selector.
	backend string
	// manager replaces the manager built from backend.
	manager *visa.ResourceManager
	// remoteOptions configure a remote backend.
	remoteOptions []remote.Option
	// handshake is read after every write and query when set.
	handshake string
	// separator joins property arguments.
	separator string
	// prefixCommands prefixes root properties with a colon.
	prefixCommands bool
	// params are resource attributes applied on the first connect.
	params map[string]string
	// explicitRemote replaces *IDN? as the command sent on connect.
	explicitRemote string
	// goos selects the port rules.
	goos string
}

func defaultOptions() *options {
	return &options{
		portMatch: true,
		separator: DefaultSeparator,
		params:    make(map[string]string),
		goos:      runtime.GOOS,
	}
}

// Option configures an Instrument.
type Option func(*options)

// WithPort sets the port to resolve into a resource id.
func WithPort(port string) Option {
	return func(o *options) {
		o.port = port
	}
}

// WithResourceID sets the resource id directly, skipping port resolution.
func WithResourceID(rid string) Option {
	return func(o *options) {
		o.rid = rid
	}
}

// WithPortMatch controls whether the port must match a listed resource.
func WithPortMatch(match bool) Option {
	return func(o *options) {
		o.portMatch = match
	}
}

// WithBackend selects the backend, e.g. "@sim" or "10.0.0.2:5050@remote".
func WithBackend(selector string) Option {
	return func(o *options) {
		o.backend = selector
	}
}

// WithResourceManager uses an existing manager instead of opening a backend.
func WithResourceManager(manager *visa.ResourceManager) Option {
	return func(o *options) {
		o.manager = manager
	}
}

// WithRemoteOptions configures the remote backend when one is selected.
func WithRemoteOptions(opts ...remote.Option) Option {
	return func(o *options) {
		o.remoteOptions = append(o.remoteOptions, opts...)
	}
}

// WithHandshake enables the default "OK" handshake.
func WithHandshake(enabled bool) Option {
	return func(o *options) {
		o.handshake = ""
		if enabled {
			o.handshake = DefaultHandshake
		}
	}
}

// WithHandshakeMessage sets a custom handshake message; empty disables it.
func WithHandshakeMessage(msg string) Option {
	return func(o *options) {
		o.handshake = msg
	}
}

// WithSeparator sets the property argument separator.
func WithSeparator(separator string) Option {
	return func(o *options) {
		o.separator = separator
	}
}

// WithPrefixCommands prefixes every root property with a colon.
func WithPrefixCommands(prefix bool) Option {
	return func(o *options) {
		o.prefixCommands = prefix
	}
}

// WithParam sets one resource attribute, e.g. "timeout" or "read_termination".
func WithParam(name, value string) Option {
	return func(o *options) {
		o.params[name] = value
	}
}

// WithParams sets several resource attributes.
func WithParams(params map[string]string) Option {
	return func(o *options) {
		maps.Copy(o.params, params)
	}
}

// WithExplicitRemote sends cmd on connect instead of *IDN?.
func WithExplicitRemote(cmd string) Option {
	return func(o *options) {
		o.explicitRemote = cmd
	}
}

// WithGOOS applies the port rules of another operating system.
func WithGOOS(goos string) Option {
	return func(o *options) {
		o.goos = goos
	}
}
