// Package version carries build metadata stamped in with -ldflags, e.g.
// go build -ldflags "-X git.home.luguber.info/inful/sitegen/internal/version.Version=v0.3.0".
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the metadata for --version output.
func String() string {
	return fmt.Sprintf("sitegen %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
