// Package version holds the versions of the floodgated daemon and the floodctl
// CLI. The two binaries are versioned independently and follow semver.
package version

// FloodgatedVersion is the version of the storage node daemon.
const FloodgatedVersion = "0.1.0-dev"

// FloodctlVersion is the version of the CLI.
const FloodctlVersion = "0.1.0-dev"
