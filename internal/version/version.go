// Package version reports the build identity of the adsfwd tools.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/adsfwd/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/adsfwd/internal/version.Commit=abc1234"
//
// Unset values are filled from the VCS stamp in the build info, then fall
// back to "dev" and "unknown".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the short git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		info, ok := debug.ReadBuildInfo()
		if ok {
			applyBuildSettings(info.Settings)
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// applyBuildSettings fills Version and Commit from vcs.* build settings
func applyBuildSettings(settings []debug.BuildSetting) {
	var revision, modified, stamp string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			stamp = s.Value
		}
	}

	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		Commit = revision
		if modified == "true" {
			Commit += "-dirty"
		}
	}

	// build info carries no tags, so a VCS build is a dated dev version
	if Version == "" && stamp != "" {
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			Version = "dev-" + t.UTC().Format("20060102")
		}
	}
}

// Info is the build identity in a form suitable for JSON output
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build identity of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
