// Package version exposes build metadata stamped via -ldflags, for
// example:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0"
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)
