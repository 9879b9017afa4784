package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/oshokin/easy-scpi/internal/pb/v1"
	"github.com/oshokin/easy-scpi/internal/version"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// defaultCallTimeout bounds calls when no timeout option is given.
const defaultCallTimeout = 5 * time.Second

// Backend talks to a gateway.
type Backend struct {
	// conn is the underlying gRPC connection to the gateway.
	conn *grpc.ClientConn
	// api is the InstrumentService client.
	api pb.InstrumentServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// hostname identifies the calling machine to the gateway.
	hostname string
	// username identifies the calling user to the gateway.
	username string
}

// Option configures the backend.
type Option func(*Backend)

// WithCallTimeout sets a default timeout for gateway calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(b *Backend) {
		if timeout > 0 {
			b.callTimeout = timeout
		}
	}
}

// WithActor sets the identity sent with every call for the gateway audit trail.
func WithActor(hostname, username string) Option {
	return func(b *Backend) {
		b.hostname = hostname
		b.username = username
	}
}

var (
	// errAddressRequired is returned when the gateway address is missing.
	errAddressRequired = errors.New("address must be provided")
	// errNoResource is returned when the gateway reports no resource name.
	errNoResource = errors.New("gateway reported no resource")
)

// NewBackend prepares a connection to the gateway at address.
// The connection is established lazily on the first call.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func NewBackend(address string, opts ...Option) (*Backend, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial gateway: %w", err)
	}

	b := &Backend{
		conn:        conn,
		api:         pb.NewInstrumentServiceClient(conn),
		callTimeout: defaultCallTimeout,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// ListResources returns the single resource the gateway serves.
func (b *Backend) ListResources(ctx context.Context) ([]string, error) {
	name, _, err := b.identify(ctx)
	if err != nil {
		return nil, err
	}

	return []string{name}, nil
}

// Open returns a session to the gateway resource if name matches it.
func (b *Backend) Open(ctx context.Context, name string, params visa.Params) (visa.Resource, error) {
	served, readTermination, err := b.identify(ctx)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(served, name) {
		return nil, fmt.Errorf("%w: gateway serves %s, not %s", visa.ErrResourceNotFound, served, name)
	}

	if readTermination != "" {
		params.ReadTermination = readTermination
	}

	res := &resource{
		backend: b,
		name:    served,
		params:  params,
	}
	res.open.Store(true)

	return res, nil
}

// Close releases the underlying gRPC connection.
func (b *Backend) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}

	return b.conn.Close()
}

// identify returns the served resource name and its read termination.
func (b *Backend) identify(ctx context.Context) (string, string, error) {
	callCtx, cancel := b.callContext(ctx)
	defer cancel()

	resp, err := b.api.Identify(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", "", fmt.Errorf("identify gateway: %w", convertError(err))
	}

	fields := resp.GetFields()

	name := fields[pb.FieldResource].GetStringValue()
	if name == "" {
		return "", "", errNoResource
	}

	return name, fields[pb.FieldReadTermination].GetStringValue(), nil
}

// callContext returns a context with the call timeout and actor metadata.
// A deadline already on ctx that is sooner wins.
func (b *Backend) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.hostname != "" || b.username != "" {
		ctx = metadata.AppendToOutgoingContext(ctx,
			pb.MetadataActorHostname, b.hostname,
			pb.MetadataActorUsername, b.username,
		)
	}

	if b.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, b.callTimeout)
}

// convertError maps gateway status codes back onto visa errors.
func convertError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", visa.ErrTimeout, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", visa.ErrClosed, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", visa.ErrResourceNotFound, st.Message())
	default:
		return err
	}
}

// resource forwards I/O to the gateway.
type resource struct {
	// backend owns the connection.
	backend *Backend
	// name is the served resource name.
	name string
	// params carry the gateway read termination.
	params visa.Params
	// open is the local session state.
	open atomic.Bool
}

// Name returns the served resource name.
func (r *resource) Name() string {
	return r.name
}

// Params returns the session attributes.
func (r *resource) Params() visa.Params {
	return r.params
}

// Open marks the session open; the gateway keeps the instrument connected.
func (r *resource) Open(context.Context) error {
	r.open.Store(true)

	return nil
}

// Close marks the session closed without touching the gateway.
func (r *resource) Close() error {
	r.open.Store(false)

	return nil
}

// IsOpen reports the local session state.
func (r *resource) IsOpen() bool {
	return r.open.Load()
}

// Write forwards msg.
func (r *resource) Write(ctx context.Context, msg string) (int, error) {
	if !r.IsOpen() {
		return 0, visa.ErrClosed
	}

	callCtx, cancel := r.backend.callContext(ctx)
	defer cancel()

	resp, err := r.backend.api.Write(callCtx, wrapperspb.String(msg))
	if err != nil {
		return 0, fmt.Errorf("remote write: %w", convertError(err))
	}

	return int(resp.GetValue()), nil
}

// Read forwards a read.
func (r *resource) Read(ctx context.Context) (string, error) {
	if !r.IsOpen() {
		return "", visa.ErrClosed
	}

	callCtx, cancel := r.backend.callContext(ctx)
	defer cancel()

	resp, err := r.backend.api.Read(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", fmt.Errorf("remote read: %w", convertError(err))
	}

	return resp.GetValue(), nil
}

// Query forwards msg and its response as one call, so the gateway answers
// this caller even when other clients share the instrument.
func (r *resource) Query(ctx context.Context, msg string) (string, error) {
	if !r.IsOpen() {
		return "", visa.ErrClosed
	}

	callCtx, cancel := r.backend.callContext(ctx)
	defer cancel()

	resp, err := r.backend.api.Query(callCtx, wrapperspb.String(msg))
	if err != nil {
		return "", fmt.Errorf("remote query: %w", convertError(err))
	}

	return resp.GetValue(), nil
}

// ReadRaw forwards a raw read.
func (r *resource) ReadRaw(ctx context.Context, size int) ([]byte, error) {
	if !r.IsOpen() {
		return nil, visa.ErrClosed
	}

	callCtx, cancel := r.backend.callContext(ctx)
	defer cancel()

	resp, err := r.backend.api.ReadRaw(callCtx, wrapperspb.Int64(int64(max(size, 0))))
	if err != nil {
		return nil, fmt.Errorf("remote read raw: %w", convertError(err))
	}

	return resp.GetValue(), nil
}
