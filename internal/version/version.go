// Package version reports the build of the running binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X logview/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String formats the version as "version (commit) date". Without ldflags
// the commit and date come from the VCS stamp of the build, when present.
func String() string {
	return format(Version, Commit, Date, readBuildInfo)
}

func format(v, commit, date string, info func() (*debug.BuildInfo, bool)) string {
	if commit == "" && date == "" {
		if bi, ok := info(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					commit = shortRev(s.Value)
				case "vcs.time":
					date = s.Value
				}
			}
		}
	}
	out := v
	if commit != "" {
		out += fmt.Sprintf(" (%s)", commit)
	}
	if date != "" {
		out += " " + date
	}
	return out
}

func shortRev(r string) string {
	if len(r) > 12 {
		return r[:12]
	}
	return r
}

var readBuildInfo = debug.ReadBuildInfo
