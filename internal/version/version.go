// Package version reports build information for the stylenorm binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time via ldflags:
//
//	-X bennypowers.dev/stylenorm/internal/version.Version=v0.1.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GitDirty  = ""
)

// Info describes the running build
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Dirty     bool
	GoVersion string
}

// Get collects build information, falling back to the module build info
// and VCS settings embedded by the go tool when ldflags were not set
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		Dirty:     GitDirty == "dirty",
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			if GitDirty == "" {
				info.Dirty = setting.Value == "true"
			}
		}
	}
	return info
}

// ShortCommit returns the first seven characters of the commit
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String formats the version for --version output, e.g.
// "v0.1.0 (commit: 1a2b3c4, dirty)"
func (i Info) String() string {
	var details []string
	if i.Commit != "unknown" && i.Commit != "" && !strings.HasSuffix(i.Version, i.ShortCommit()) {
		details = append(details, "commit: "+i.ShortCommit())
	}
	if i.Dirty {
		details = append(details, "dirty")
	}
	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}
