// Package version holds the single source of the module version.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags, for example:
//
//	go build -ldflags "-X github.com/oshokin/easy-scpi/internal/version.Version=1.2.3" ./cmd/scpi
//
// Helper functions Short, Full and UserAgent render it for CLI output,
// logs and the gateway client.
package version
