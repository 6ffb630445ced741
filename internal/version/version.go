// Package version reports the rosterlint release and build metadata.
package version

import (
	_ "embed"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the current version, with whitespace trimmed
func Get() string {
	return strings.TrimSpace(versionContent)
}

// Info is the release plus what the Go toolchain recorded about the build.
type Info struct {
	Version   string
	Commit    string
	Modified  bool
	GoVersion string
}

// Build returns the version info for the running binary.
func Build() Info {
	info := Info{Version: Get(), GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders e.g. "rosterlint 0.1.0 (3f2a9c1, go1.24.11)".
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		commit = "unknown"
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("rosterlint %s (%s, %s)", i.Version, commit, i.GoVersion)
}
