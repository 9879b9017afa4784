// Package common holds helpers shared by several services.
//
// It builds instruments from settings and detects the current system actor
// (hostname/username) for the gateway audit trail.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
