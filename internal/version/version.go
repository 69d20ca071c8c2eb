// Package version carries the build identity reported in the Server header,
// the startup log and the version subcommand.
package version

import "runtime"

// Build-time variables (override via -ldflags -X ...).
// Example:
//
//	go build -ldflags "-X statichttpd/internal/version.Version=0.3.1 -X statichttpd/internal/version.Commit=abcd123"
var (
	Version = "v0.3.0"
	Commit  = ""
)

// String returns the one-line version for CLI and log output.
func String() string {
	s := Version
	if s == "" {
		s = "dev"
	}
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	return s + " [" + runtime.Version() + "]"
}
