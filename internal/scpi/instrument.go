package scpi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/oshokin/easy-scpi/internal/domain/instrument"
	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/visa"
	"github.com/oshokin/easy-scpi/internal/visa/backends"
)

// Common commands.
const (
	CommandIdentify = "*IDN?"
	CommandReset    = "*RST"
	CommandInit     = "INIT"
	CommandRead     = "READ?"
)

// Instrument is a session to one SCPI instrument.
// All methods are safe for concurrent use; I/O is serialized.
type Instrument struct {
	// manager lists and opens resources.
	manager *visa.ResourceManager
	// goos selects the port rules.
	goos string
	// handshake is read after every write and query when set.
	handshake string
	// separator joins property arguments.
	separator string
	// prefixCommands prefixes root properties with a colon.
	prefixCommands bool
	// explicitRemote replaces *IDN? as the command sent on connect.
	explicitRemote string
	// rawParams are the resource attributes as given.
	rawParams map[string]string
	// params are the resource attributes applied on open.
	params visa.Params

	// mu guards the fields below and serializes I/O.
	mu sync.Mutex
	// res is the session, nil before the first connect.
	res visa.Resource
	// port is the port as given.
	port string
	// portMatch verifies ports against listed resources.
	portMatch bool
	// rid is the resource id to open.
	rid string
}

// New builds an instrument. It resolves the port, if any, but does not connect.
func New(ctx context.Context, opts ...Option) (*Instrument, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	params := visa.DefaultParams()
	for name, value := range o.params {
		if err := params.Set(name, value); err != nil {
			return nil, fmt.Errorf("set resource parameter: %w", err)
		}
	}

	manager := o.manager
	if manager == nil {
		var err error

		manager, err = backends.Open(o.backend, o.remoteOptions...)
		if err != nil {
			return nil, fmt.Errorf("open resource manager: %w", err)
		}
	}

	inst := &Instrument{
		manager:        manager,
		goos:           o.goos,
		handshake:      o.handshake,
		separator:      o.separator,
		prefixCommands: o.prefixCommands,
		explicitRemote: o.explicitRemote,
		rawParams:      o.params,
		params:         params,
		portMatch:      o.portMatch,
		rid:            o.rid,
	}

	if o.port != "" {
		if err := inst.SetPort(ctx, o.port); err != nil {
			if o.manager == nil {
				_ = manager.Close()
			}

			return nil, err
		}
	}

	return inst, nil
}

// Backend returns the backend selector.
func (i *Instrument) Backend() string {
	return i.manager.Backend()
}

// ResourceManager returns the manager the instrument opens resources with.
func (i *Instrument) ResourceManager() *visa.ResourceManager {
	return i.manager
}

// Resource returns the session, nil before the first connect.
func (i *Instrument) Resource() visa.Resource {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.res
}

// Port returns the port as given.
func (i *Instrument) Port() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.port
}

// SetPort disconnects, then resolves port into the resource id.
// An empty port clears the port and the resource id.
func (i *Instrument) SetPort(ctx context.Context, port string) error {
	if port == "" {
		i.mu.Lock()
		defer i.mu.Unlock()

		i.port = ""
		i.rid = ""

		return nil
	}

	pattern, err := ResourcePattern(port, i.goos)
	if err != nil {
		return err
	}

	i.mu.Lock()
	i.dropLocked(ctx)
	i.port = port
	match := i.portMatch
	i.mu.Unlock()

	rid := pattern

	if match {
		resources, err := i.manager.ListResources(ctx)
		if err != nil {
			return err
		}

		if rid, err = MatchResource(pattern, resources); err != nil {
			return err
		}
	}

	i.mu.Lock()
	i.rid = rid
	i.mu.Unlock()

	logger.DebugKV(ctx, "Port resolved", "port", port, "pattern", pattern, "resource", rid)

	return nil
}

// PortMatch reports whether ports are verified against listed resources.
func (i *Instrument) PortMatch() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.portMatch
}

// SetPortMatch controls port verification for later SetPort calls.
func (i *Instrument) SetPortMatch(match bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.portMatch = match
}

// RID returns the resource id.
func (i *Instrument) RID() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.rid
}

// SetRID sets the resource id directly. A session to another resource is closed.
func (i *Instrument) SetRID(ctx context.Context, rid string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.res != nil && i.res.Name() != rid {
		i.dropLocked(ctx)
	}

	i.rid = rid
}

// ResourceParams returns a copy of the resource attributes as given.
func (i *Instrument) ResourceParams() map[string]string {
	return maps.Clone(i.rawParams)
}

// Handshake returns the handshake message, empty when disabled.
func (i *Instrument) Handshake() string {
	return i.handshake
}

// Property returns the root command name.
func (i *Instrument) Property(name string) *Property {
	if i.prefixCommands {
		name = ":" + name
	}

	return NewProperty(i, name, i.separator)
}

// Connect opens the resource, or reopens it after Disconnect, then puts the
// instrument in remote mode with the explicit remote command or *IDN?.
func (i *Instrument) Connect(ctx context.Context) error {
	if err := i.open(ctx); err != nil {
		return err
	}

	var err error

	if i.explicitRemote != "" {
		_, err = i.Write(ctx, i.explicitRemote)
	} else {
		_, err = i.ID(ctx)
	}

	if err != nil {
		return fmt.Errorf("enter remote mode: %w", err)
	}

	return nil
}

func (i *Instrument) open(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.rid == "" {
		return ErrNoResourceID
	}

	if i.res == nil {
		res, err := i.manager.OpenResource(ctx, i.rid, i.params)
		if err != nil {
			return err
		}

		i.res = res

		return nil
	}

	if i.res.IsOpen() {
		return nil
	}

	if err := i.res.Open(ctx); err != nil {
		return fmt.Errorf("reopen resource %s: %w", i.rid, err)
	}

	return nil
}

// Disconnect closes the session; Connect reopens it.
func (i *Instrument) Disconnect() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.res == nil {
		return nil
	}

	return i.res.Close()
}

// Close disconnects and releases the resource manager.
func (i *Instrument) Close() error {
	return errors.Join(i.Disconnect(), i.manager.Close())
}

// IsConnected reports whether the session is open.
func (i *Instrument) IsConnected() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.connectedLocked()
}

// Write sends msg and checks the handshake. It returns the bytes written.
func (i *Instrument) Write(ctx context.Context, msg string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.connectedLocked() {
		return 0, fmt.Errorf("can not write: %w", ErrNotConnected)
	}

	n, err := i.res.Write(ctx, msg)
	if err != nil {
		return n, fmt.Errorf("write %q: %w", msg, err)
	}

	return n, i.handshakeLocked(ctx)
}

// Read returns the next response.
func (i *Instrument) Read(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.connectedLocked() {
		return "", fmt.Errorf("can not read: %w", ErrNotConnected)
	}

	resp, err := i.res.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	return resp, nil
}

// Query sends msg, reads the response and checks the handshake.
func (i *Instrument) Query(ctx context.Context, msg string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.connectedLocked() {
		return "", fmt.Errorf("can not query: %w", ErrNotConnected)
	}

	resp, err := visa.Query(ctx, i.res, msg, i.params.QueryDelay)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", msg, err)
	}

	return resp, i.handshakeLocked(ctx)
}

// ReadRaw reads size bytes, or up to the termination when size is zero.
func (i *Instrument) ReadRaw(ctx context.Context, size int) ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	mb, err := i.messageBasedLocked()
	if err != nil {
		return nil, err
	}

	data, err := mb.ReadRaw(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("read raw: %w", err)
	}

	return data, nil
}

// QueryASCIIValues sends msg and parses the response as numbers split by separator.
func (i *Instrument) QueryASCIIValues(ctx context.Context, msg, separator string) ([]float64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	mb, err := i.messageBasedLocked()
	if err != nil {
		return nil, err
	}

	values, err := visa.QueryASCIIValues(ctx, mb, msg, separator, i.params.QueryDelay)
	if err != nil {
		return nil, fmt.Errorf("query ascii values %q: %w", msg, err)
	}

	return values, i.handshakeLocked(ctx)
}

// QueryBinaryValues sends msg and decodes the IEEE 488.2 block response.
func (i *Instrument) QueryBinaryValues(ctx context.Context, msg string, opts visa.BinaryOptions) ([]float64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	mb, err := i.messageBasedLocked()
	if err != nil {
		return nil, err
	}

	values, err := visa.QueryBinaryValues(ctx, mb, msg, opts, i.params.QueryDelay)
	if err != nil {
		return nil, fmt.Errorf("query binary values %q: %w", msg, err)
	}

	return values, i.handshakeLocked(ctx)
}

// ID queries *IDN?.
func (i *Instrument) ID(ctx context.Context) (string, error) {
	return i.Query(ctx, CommandIdentify)
}

// Identity queries *IDN? and parses the answer.
func (i *Instrument) Identity(ctx context.Context) (instrument.Identity, error) {
	idn, err := i.ID(ctx)
	if err != nil {
		return instrument.Identity{}, err
	}

	return instrument.ParseIdentity(idn), nil
}

// Value queries READ?.
func (i *Instrument) Value(ctx context.Context) (string, error) {
	return i.Query(ctx, CommandRead)
}

// Reset sends *RST.
func (i *Instrument) Reset(ctx context.Context) (int, error) {
	return i.Write(ctx, CommandReset)
}

// Init sends INIT.
func (i *Instrument) Init(ctx context.Context) (int, error) {
	return i.Write(ctx, CommandInit)
}

func (i *Instrument) connectedLocked() bool {
	return i.res != nil && i.res.IsOpen()
}

func (i *Instrument) messageBasedLocked() (visa.MessageBased, error) {
	if !i.connectedLocked() {
		return nil, ErrNotConnected
	}

	mb, ok := i.res.(visa.MessageBased)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotMessageBased, i.res)
	}

	return mb, nil
}

// handshakeLocked reads one message and compares it with the handshake.
func (i *Instrument) handshakeLocked(ctx context.Context) error {
	if i.handshake == "" {
		return nil
	}

	hs, err := i.res.Read(ctx)
	if err != nil {
		return fmt.Errorf("read handshake: %w", err)
	}

	if hs != i.handshake {
		return &HandshakeError{
			Expected: i.handshake,
			Received: hs,
		}
	}

	return nil
}

// dropLocked closes and forgets the session so the next connect opens the current resource id.
func (i *Instrument) dropLocked(ctx context.Context) {
	if i.res == nil {
		return
	}

	if err := i.res.Close(); err != nil {
		logger.WarnKV(ctx, "Failed to close resource", "resource", i.res.Name(), "error", err)
	}

	i.res = nil
}
