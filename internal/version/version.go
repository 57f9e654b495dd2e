// Package version holds build-time metadata injected via -ldflags.
package version

// Version, Commit, and BuildTime are overridden at link time with
// -ldflags "-X github.com/Norgate-AV/clcache/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
