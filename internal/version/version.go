// Package version reports the build version of the hublink binaries.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version and Commit identify the build. Release builds stamp them
// with ldflags:
//
//	-X github.com/muurk/hublink/internal/version.Version=v0.3.0
//	-X github.com/muurk/hublink/internal/version.Commit=abc1234
//
// Unstamped builds (go install, go run) fall back to the module build
// info embedded by the toolchain.
var (
	Version = ""
	Commit  = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if Version == "" {
		Version = "dev"
		if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	if Commit == "" && ok {
		Commit = vcsRevision(info)
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func vcsRevision(info *debug.BuildInfo) string {
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return ""
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}

// Full returns the version with the commit appended.
func Full() string {
	return fmt.Sprintf("%s (commit %s)", Version, Commit)
}
