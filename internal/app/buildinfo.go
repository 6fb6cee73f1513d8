package app

import "fmt"

// Build information set with -ldflags "-X .../internal/app.BuildVersion=..."
// by release builds. The defaults identify a local build.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString is the line printed by -version.
func VersionString() string {
	return fmt.Sprintf("plainlegal %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
