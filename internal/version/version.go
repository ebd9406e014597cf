// Package version holds build information for svcdeck. Values are set at
// build time with -ldflags "-X github.com/hazz-dev/svcdeck/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build information for the version command.
func String() string {
	return fmt.Sprintf("svcdeck %s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}
