// Package remote implements a visa.Backend that reaches an instrument shared
// by an easy-scpi gateway over gRPC.
//
// The gateway exposes exactly one resource; ListResources returns its name
// and Open returns a message-based resource forwarding every call.
package remote
