// Package instrument implements the gRPC transport for the instrument gateway.
//
// It reads the caller identity from metadata, maps instrument errors to gRPC
// status codes and calls into a provided business-service interface.
package instrument
