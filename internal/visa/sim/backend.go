package sim

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// Backend serves simulated resources from a Definition.
// Device state lives as long as the backend, so values written through one
// session are visible after reopening.
type Backend struct {
	// def is the validated definition.
	def *Definition

	// mu guards devices.
	mu sync.Mutex
	// devices holds device state per resource name.
	devices map[string]*device
}

// NewBackend creates a backend for def.
func NewBackend(def *Definition) (*Backend, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &Backend{
		def:     def,
		devices: make(map[string]*device, len(def.Resources)),
	}, nil
}

// NewDefaultBackend creates a backend serving the built-in definition.
func NewDefaultBackend() (*Backend, error) {
	def, err := DefaultDefinition()
	if err != nil {
		return nil, err
	}

	return NewBackend(def)
}

// ListResources returns the resource names of the definition.
func (b *Backend) ListResources(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(b.def.Resources))
	for name := range b.def.Resources {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

// Open returns an open session to the named resource.
func (b *Backend) Open(ctx context.Context, name string, params visa.Params) (visa.Resource, error) {
	dev, err := b.device(name)
	if err != nil {
		return nil, err
	}

	params.ReadTermination = dev.def.EOM.Response
	params.WriteTermination = dev.def.EOM.Query

	logger.DebugKV(ctx, "Simulated resource opened", "resource", name)

	res := &resource{
		name:   name,
		params: params,
		dev:    dev,
	}
	res.open.Store(true)

	return res, nil
}

// Close drops all device state.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.devices = make(map[string]*device, len(b.def.Resources))

	return nil
}

// PropertyValue returns the current value of a property of the device
// behind resource, creating the device state if needed.
func (b *Backend) PropertyValue(resource, property string) (string, bool) {
	dev, err := b.device(resource)
	if err != nil {
		return "", false
	}

	return dev.value(property)
}

// device returns the state for a resource, creating it on first use.
func (b *Backend) device(name string) (*device, error) {
	res, ok := b.def.Resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", visa.ErrResourceNotFound, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	dev, ok := b.devices[name]
	if !ok {
		dev = newDevice(b.def.Devices[res.Device])
		b.devices[name] = dev
	}

	return dev, nil
}
