package version

import (
	"fmt"
	"runtime/debug"
)

// Name is the project name printed in version banners.
const Name = "easy-scpi"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.4.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength is how many SHA characters a VCS revision is cut to.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time. Values missing from
// ldflags are taken from the VCS stamp of the binary when it has one.
func Full() string {
	commit, built := Commit, BuildTime

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && commit == "none":
				commit = setting.Value
				if len(commit) > shortCommitLength {
					commit = commit[:shortCommitLength]
				}
			case setting.Key == "vcs.time" && built == "unknown":
				built = setting.Value
			}
		}
	}

	return fmt.Sprintf("%s version: %s, commit: %s, built at: %s", Name, Version, commit, built)
}

// UserAgent returns the identifier the remote backend sends to gateways.
func UserAgent() string {
	return Name + "/" + Version
}
