package utils

import (
	"runtime/debug"
	"strings"
)

// version is injected by the release build via ldflags.
var version string

// Version reports the build version, falling back to Go module build info
// for plain `go install` builds.
func Version() string {
	v := version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		} else {
			v = "unknown"
		}
	}
	return strings.TrimPrefix(v, "v")
}
