// Package version reports the build version of grimorio.
// Release builds set it with ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/grimorio/internal/version.Version=v1.0.0 -X github.com/ramonehamilton/grimorio/internal/version.Commit=abc1234"
package version

import (
	"fmt"
	"runtime"
)

// Version is the release tag, "dev" for local builds.
var Version = "dev"

// Commit is the source revision, empty for local builds.
var Commit = ""

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String describes the build for `grimorio version` and the health endpoint.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("grimorio %s (%s)", Version, runtime.Version())
	}
	return fmt.Sprintf("grimorio %s (%s, %s)", Version, Commit, runtime.Version())
}
