package instrument

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
	pb "github.com/oshokin/easy-scpi/internal/pb/v1"
	"github.com/oshokin/easy-scpi/internal/scpi"
	"github.com/oshokin/easy-scpi/internal/visa"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Write(ctx context.Context, actor *domain.Actor, msg string) (int, error)
	Read(ctx context.Context, actor *domain.Actor) (string, error)
	Query(ctx context.Context, actor *domain.Actor, msg string) (string, error)
	ReadRaw(ctx context.Context, actor *domain.Actor, size int) ([]byte, error)
	Identify(ctx context.Context) *domain.State
	GetState(ctx context.Context) *domain.State
}

// Server implements the InstrumentService gRPC API.
type Server struct {
	pb.UnimplementedInstrumentServiceServer

	// service provides the instrument operations.
	service Service
	// readTermination is reported by Identify so remote sessions strip the same suffix.
	readTermination string
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service, readTermination string) *Server {
	return &Server{
		service:         service,
		readTermination: readTermination,
	}
}

// Write sends a message to the instrument.
func (s *Server) Write(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "message is required")
	}

	n, err := s.service.Write(ctx, actorFromContext(ctx), req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.UInt64(uint64(max(n, 0))), nil
}

// Read returns the next response of the instrument.
func (s *Server) Read(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	resp, err := s.service.Read(ctx, actorFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(resp), nil
}

// Query sends a message and returns the response.
func (s *Server) Query(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "message is required")
	}

	resp, err := s.service.Query(ctx, actorFromContext(ctx), req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(resp), nil
}

// ReadRaw reads raw bytes; zero reads up to the termination.
func (s *Server) ReadRaw(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BytesValue, error) {
	switch size := req.GetValue(); {
	case size < 0:
		return nil, status.Error(codes.InvalidArgument, "size must not be negative")
	case size > visa.MaxReadSize:
		return nil, status.Errorf(codes.InvalidArgument, "size must not exceed %d bytes", visa.MaxReadSize)
	}

	data, err := s.service.ReadRaw(ctx, actorFromContext(ctx), int(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.Bytes(data), nil
}

// Identify reports the served resource, its identity and read termination.
func (s *Server) Identify(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state := s.service.Identify(ctx)

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldResource:        structpb.NewStringValue(state.ResourceID),
		pb.FieldIdentity:        structpb.NewStructValue(pb.IdentityToStruct(state.Identity)),
		pb.FieldReadTermination: structpb.NewStringValue(s.readTermination),
	}}, nil
}

// GetState returns what the gateway last did.
func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return pb.StateToStruct(s.service.GetState(ctx)), nil
}

// actorFromContext reads the caller identity from metadata; nil when absent.
func actorFromContext(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	actor := &domain.Actor{
		Hostname: first(md.Get(pb.MetadataActorHostname)),
		Username: first(md.Get(pb.MetadataActorUsername)),
	}

	if actor.Hostname == "" && actor.Username == "" {
		return nil
	}

	return actor
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

// toStatus maps instrument errors to gRPC status codes.
func toStatus(err error) error {
	var hsErr *scpi.HandshakeError

	switch {
	case errors.Is(err, scpi.ErrNotConnected), errors.Is(err, visa.ErrClosed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, visa.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.As(err, &hsErr):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, visa.ErrReadTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, scpi.ErrNotMessageBased):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
