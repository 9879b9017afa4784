package sim

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/oshokin/easy-scpi/internal/logger"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// resource is a session to a simulated device.
type resource struct {
	// name is the resource name.
	name string
	// params carry the device terminations.
	params visa.Params
	// dev answers messages.
	dev *device
	// open is the session state.
	open atomic.Bool
}

// Name returns the resource name.
func (r *resource) Name() string {
	return r.name
}

// Params returns the session attributes.
func (r *resource) Params() visa.Params {
	return r.params
}

// Open reopens the session.
func (r *resource) Open(context.Context) error {
	r.open.Store(true)

	return nil
}

// Close ends the session.
func (r *resource) Close() error {
	r.open.Store(false)

	return nil
}

// IsOpen reports whether the session is valid.
func (r *resource) IsOpen() bool {
	return r.open.Load()
}

// Write hands msg to the device.
func (r *resource) Write(ctx context.Context, msg string) (int, error) {
	if !r.IsOpen() {
		return 0, visa.ErrClosed
	}

	r.dev.handle(msg)

	logger.DebugKV(ctx, "Simulated message written", "resource", r.name, "message", msg)

	return len(msg) + len(r.params.WriteTermination), nil
}

// Read returns the next queued response.
func (r *resource) Read(ctx context.Context) (string, error) {
	raw, err := r.ReadRaw(ctx, 0)
	if err != nil {
		return "", err
	}

	return string(bytes.TrimSuffix(raw, []byte(r.params.ReadTermination))), nil
}

// ReadRaw returns queued bytes. An empty queue behaves like an instrument
// that never answers.
func (r *resource) ReadRaw(_ context.Context, size int) ([]byte, error) {
	if !r.IsOpen() {
		return nil, visa.ErrClosed
	}

	if size > visa.MaxReadSize {
		return nil, fmt.Errorf("read %s: %w", r.name, visa.ErrReadTooLarge)
	}

	out, ok := r.dev.next(size)
	if !ok {
		return nil, fmt.Errorf("read %s: %w", r.name, visa.ErrTimeout)
	}

	return out, nil
}
