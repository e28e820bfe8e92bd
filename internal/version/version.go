// Package version provides build information for twcfg.
package version

import "strings"

var (
	// Version is the semantic version (injected at build time via ldflags).
	Version = "dev"
	// Commit is the git commit hash (injected at build time via ldflags).
	Commit = "none"
	// BuildDate is the build timestamp (injected at build time via ldflags).
	BuildDate = "unknown"
)

// String returns formatted version information.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}

// Short condenses a git describe version such as "v0.2.0-20-ga961617-dirty"
// to "v0.2.0-a961617-20". Tagged builds and "dev" are returned unchanged.
func Short() string {
	v := strings.TrimSuffix(Version, "-dirty")
	parts := strings.Split(v, "-")
	if len(parts) < 3 || !strings.HasPrefix(parts[len(parts)-1], "g") {
		return v
	}

	tag := strings.Join(parts[:len(parts)-2], "-")
	distance := parts[len(parts)-2]
	return tag + "-" + Commit + "-" + distance
}
