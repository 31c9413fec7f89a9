// Package version exposes stacompare's build version metadata, injected via
// ldflags at build time, grounded on pkg/version/version.go.
package version

// Version is the release version, injected via ldflags at build time.
var Version = "dev"

// Commit is the git commit hash, injected via ldflags at build time.
var Commit = "none"

// Date is the build date, injected via ldflags at build time.
var Date = "unknown"
