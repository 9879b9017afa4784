package remote

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/oshokin/easy-scpi/internal/pb/v1"
	"github.com/oshokin/easy-scpi/internal/visa"
)

const testResource = "ASRL1::INSTR"

// fakeGateway records calls and answers with canned values.
type fakeGateway struct {
	pb.UnimplementedInstrumentServiceServer

	mu        sync.Mutex
	written   []string
	queried   []string
	usernames []string
}

func (f *fakeGateway) remember(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.usernames = append(f.usernames, md.Get(pb.MetadataActorUsername)...)
}

func (f *fakeGateway) Identify(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	f.remember(ctx)

	return structpb.NewStruct(map[string]any{
		pb.FieldResource:        testResource,
		pb.FieldReadTermination: "\r\n",
	})
}

func (f *fakeGateway) Write(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	f.remember(ctx)

	if req.GetValue() == "SLOW" {
		return nil, status.Error(codes.DeadlineExceeded, "instrument timed out")
	}

	f.mu.Lock()
	f.written = append(f.written, req.GetValue())
	f.mu.Unlock()

	return wrapperspb.UInt64(uint64(len(req.GetValue()) + 1)), nil
}

func (f *fakeGateway) Query(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	f.remember(ctx)

	f.mu.Lock()
	f.queried = append(f.queried, req.GetValue())
	f.mu.Unlock()

	return wrapperspb.String("answer:" + req.GetValue()), nil
}

func (f *fakeGateway) Read(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("1.25"), nil
}

func (f *fakeGateway) ReadRaw(_ context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BytesValue, error) {
	if req.GetValue() == 0 {
		return nil, status.Error(codes.FailedPrecondition, "instrument is not connected")
	}

	return wrapperspb.Bytes(make([]byte, req.GetValue())), nil
}

// startGateway serves fake on a loopback port.
func startGateway(t *testing.T, fake *fakeGateway) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	pb.RegisterInstrumentServiceServer(srv, fake)

	go func() { _ = srv.Serve(lis) }()

	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}

// TestBackend_RoundTrip lists, opens and forwards I/O with actor metadata.
func TestBackend_RoundTrip(t *testing.T) {
	t.Parallel()

	fake := new(fakeGateway)

	b, err := NewBackend(startGateway(t, fake), WithActor("bench", "alice"), WithCallTimeout(time.Second))
	require.NoError(t, err)

	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()

	resources, err := b.ListResources(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{testResource}, resources)

	res, err := b.Open(ctx, "asrl1::instr", visa.DefaultParams())
	require.NoError(t, err)
	require.True(t, res.IsOpen())
	require.Equal(t, testResource, res.Name())

	mb, ok := res.(visa.MessageBased)
	require.True(t, ok)
	require.Equal(t, "\r\n", mb.Params().ReadTermination)

	n, err := res.Write(ctx, "SOUR:VOLT 1.25")
	require.NoError(t, err)
	require.Equal(t, 15, n)

	value, err := res.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.25", value)

	raw, err := mb.ReadRaw(ctx, 4)
	require.NoError(t, err)
	require.Len(t, raw, 4)

	// Queries travel as one call instead of a write and a read.
	answer, err := visa.Query(ctx, res, "MEAS:VOLT?", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "answer:MEAS:VOLT?", answer)

	require.NoError(t, res.Close())

	_, err = visa.Query(ctx, res, "MEAS:VOLT?", 0)
	require.ErrorIs(t, err, visa.ErrClosed)

	_, err = res.Write(ctx, "*RST")
	require.ErrorIs(t, err, visa.ErrClosed)

	fake.mu.Lock()
	defer fake.mu.Unlock()

	require.Equal(t, []string{"SOUR:VOLT 1.25"}, fake.written)
	require.Equal(t, []string{"MEAS:VOLT?"}, fake.queried)
	require.Contains(t, fake.usernames, "alice")
}

// TestBackend_Errors maps gateway status codes onto visa errors.
func TestBackend_Errors(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(startGateway(t, new(fakeGateway)))
	require.NoError(t, err)

	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()

	_, err = b.Open(ctx, "ASRL2::INSTR", visa.DefaultParams())
	require.ErrorIs(t, err, visa.ErrResourceNotFound)

	res, err := b.Open(ctx, testResource, visa.DefaultParams())
	require.NoError(t, err)

	_, err = res.Write(ctx, "SLOW")
	require.ErrorIs(t, err, visa.ErrTimeout)

	_, err = res.(visa.MessageBased).ReadRaw(ctx, 0)
	require.ErrorIs(t, err, visa.ErrClosed)

	_, err = NewBackend("")
	require.Error(t, err)
}

// TestBackend_callContext checks timeout vs cancel-only behavior and actor metadata.
func TestBackend_callContext(t *testing.T) {
	t.Parallel()

	b := &Backend{
		callTimeout: 0,
	}

	ctx, cancel := b.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := metadata.FromOutgoingContext(ctx)
	require.False(t, ok)

	b.callTimeout = 10 * time.Millisecond
	WithActor("bench", "alice")(b)

	ctx, cancel = b.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"bench"}, md.Get(pb.MetadataActorHostname))
}
