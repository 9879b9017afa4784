// Package gateway shares one locally attached instrument with remote clients
// over gRPC.
//
// Every write and query is recorded with its caller and persisted, so GetState
// shows who last drove the instrument and with what command.
package gateway
