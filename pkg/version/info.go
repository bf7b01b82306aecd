// Package version reports the build metadata of the storefront binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	// Unknown is used when build metadata is not provided.
	Unknown = "unknown"
	// DevelopmentVersion is the default version in local builds.
	DevelopmentVersion = "dev"
)

// Overridden at build time:
//
//	go build -ldflags="-X github.com/nimburion/storefront/pkg/version.AppVersion=v1.2.3"
var (
	AppVersion = DevelopmentVersion
	GitCommit  = Unknown
	// BuildTime should be RFC3339.
	BuildTime = Unknown
)

// Info contains version metadata for the running service.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Current returns the build metadata. Without an ldflags commit the VCS
// revision stamped by the Go toolchain is used.
func Current(serviceName string) Info {
	commit := normalizeOrDefault(GitCommit, Unknown)
	if commit == Unknown {
		commit = vcsRevision()
	}
	return Info{
		Service:   normalizeOrDefault(serviceName, Unknown),
		Version:   normalizeOrDefault(AppVersion, DevelopmentVersion),
		Commit:    commit,
		BuildTime: normalizeOrDefault(BuildTime, Unknown),
		GoVersion: runtime.Version(),
	}
}

// ParseBuildTime parses BuildTime as RFC3339 if present.
func (i Info) ParseBuildTime() (time.Time, bool) {
	if i.BuildTime == "" || i.BuildTime == Unknown {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, i.BuildTime)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit=%s, build_time=%s, %s)", i.Service, i.Version, i.Commit, i.BuildTime, i.GoVersion)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Unknown
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			return setting.Value
		}
	}
	return Unknown
}

func normalizeOrDefault(v, fallback string) string {
	norm := strings.TrimSpace(v)
	if norm == "" {
		return fallback
	}
	return norm
}
