package visa

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/oshokin/easy-scpi/internal/logger"
)

// Resource is an open session to an instrument.
type Resource interface {
	// Name returns the resource name the session was opened with.
	Name() string
	// Open reopens a session previously closed with Close.
	Open(ctx context.Context) error
	// Close ends the session; I/O afterwards fails with ErrClosed.
	Close() error
	// IsOpen reports whether the session is valid.
	IsOpen() bool
	// Write sends msg followed by the write termination and returns the bytes written.
	Write(ctx context.Context, msg string) (int, error)
	// Read returns the next response without its read termination.
	Read(ctx context.Context) (string, error)
}

// MessageBased is a Resource that also exposes raw byte reads,
// which binary transfers depend on.
type MessageBased interface {
	Resource
	// ReadRaw reads exactly size bytes when size > 0, otherwise up to and
	// including the read termination.
	ReadRaw(ctx context.Context, size int) ([]byte, error)
	// Params returns the parameters the resource was opened with.
	Params() Params
}

// Querier is implemented by resources that send a message and read its
// response as one operation, such as a gateway session shared by several
// clients. Query uses it instead of a separate Write and Read.
type Querier interface {
	Query(ctx context.Context, msg string) (string, error)
}

// MaxReadSize bounds a single raw read and the payload of a binary block.
const MaxReadSize = 64 << 20

// Backend lists and opens resources of one communication layer.
type Backend interface {
	// ListResources returns the names of resources the backend can open.
	ListResources(ctx context.Context) ([]string, error)
	// Open opens a resource by name.
	Open(ctx context.Context, name string, params Params) (Resource, error)
	// Close releases backend wide state.
	Close() error
}

// ResourceManager is the entry point for listing and opening resources.
type ResourceManager struct {
	// backend performs the actual work.
	backend Backend
	// name is the backend selector the manager was built for, used in logs.
	name string
}

// NewResourceManager wraps the provided backend.
func NewResourceManager(name string, backend Backend) *ResourceManager {
	return &ResourceManager{
		backend: backend,
		name:    name,
	}
}

// Backend returns the backend selector the manager was created with.
func (m *ResourceManager) Backend() string {
	return m.name
}

// ListResources returns the sorted names of available resources.
func (m *ResourceManager) ListResources(ctx context.Context) ([]string, error) {
	resources, err := m.backend.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	resources = slices.Clone(resources)
	slices.Sort(resources)

	logger.DebugKV(ctx, "Resources listed", "backend", m.name, "count", len(resources))

	return resources, nil
}

// OpenResource opens the named resource with params completed by defaults.
func (m *ResourceManager) OpenResource(ctx context.Context, name string, params Params) (Resource, error) {
	res, err := m.backend.Open(ctx, name, params.WithDefaults())
	if err != nil {
		return nil, fmt.Errorf("open resource %s: %w", name, err)
	}

	logger.InfoKV(ctx, "Resource opened", "backend", m.name, "resource", name)

	return res, nil
}

// Close releases the backend.
func (m *ResourceManager) Close() error {
	return m.backend.Close()
}

// Query writes msg, waits for the query delay and reads the response.
// Resources implementing Querier answer in one call; their delay is
// applied on the side that talks to the instrument.
func Query(ctx context.Context, r Resource, msg string, delay time.Duration) (string, error) {
	if q, ok := r.(Querier); ok {
		return q.Query(ctx, msg)
	}

	if _, err := r.Write(ctx, msg); err != nil {
		return "", err
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return r.Read(ctx)
}
