// Package pb holds the gRPC bindings of api/easyscpi/v1/instrument.proto.
//
// The service only uses well-known protobuf types, so the bindings consist
// of the service stubs alone.
package pb

//go:generate protoc -I ../../../api --go-grpc_out=../../.. --go-grpc_opt=module=github.com/oshokin/easy-scpi easyscpi/v1/instrument.proto
