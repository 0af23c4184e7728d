// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

import "fmt"

// Populated by -ldflags at build time, e.g.
//
//	-X github.com/go-ports/kontacto/internal/buildinfo.Version=v1.2.0
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Summary returns the version line printed by `kontacto --version`.
func Summary() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
