package audiotag

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// Version is the semantic version of the audiotag library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo describes the library build.
type VersionInfo struct {
	Version   string
	GitCommit string // "unknown" without VCS stamping or ldflags
	BuildTime string
	GoVersion string
	TagLib    string // version of the go.senan.xyz/taglib module, if linked
}

// Overridable with -ldflags "-X github.com/simonhull/audiotag.gitCommit=...".
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)

// GetVersionInfo returns build details. Values set through ldflags win over
// the VCS stamp embedded by the go command.
func GetVersionInfo() VersionInfo {
	return versionInfo()
}

var versionInfo = sync.OnceValue(func() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		TagLib:    "unknown",
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.GitCommit == "unknown":
			info.GitCommit = s.Value
		case s.Key == "vcs.time" && info.BuildTime == "unknown":
			info.BuildTime = s.Value
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path == "go.senan.xyz/taglib" {
			info.TagLib = dep.Version
		}
	}
	return info
})
