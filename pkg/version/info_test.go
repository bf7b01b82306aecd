package version

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func withBuildVars(t *testing.T, appVersion, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := AppVersion, GitCommit, BuildTime
	t.Cleanup(func() {
		AppVersion, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
	AppVersion, GitCommit, BuildTime = appVersion, commit, buildTime
}

func TestCurrentDefaults(t *testing.T) {
	withBuildVars(t, "", "", "")

	info := Current("  ")
	if info.Service != Unknown {
		t.Fatalf("expected service %q, got %q", Unknown, info.Service)
	}
	if info.Version != DevelopmentVersion {
		t.Fatalf("expected version %q, got %q", DevelopmentVersion, info.Version)
	}
	if info.Commit == "" {
		t.Fatal("expected a commit fallback")
	}
	if info.BuildTime != Unknown {
		t.Fatalf("expected build time %q, got %q", Unknown, info.BuildTime)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("expected go version %q, got %q", runtime.Version(), info.GoVersion)
	}
}

func TestCurrentUsesBuildVars(t *testing.T) {
	withBuildVars(t, "v1.4.0", "0a1b2c", "2026-03-01T10:00:00Z")

	info := Current("storefront")
	if info.Version != "v1.4.0" || info.Commit != "0a1b2c" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !strings.HasPrefix(info.String(), "storefront v1.4.0 (commit=0a1b2c") {
		t.Fatalf("unexpected string %q", info.String())
	}
}

func TestInfoParseBuildTime(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{name: "rfc3339", raw: "2026-03-01T10:00:00Z", wantOK: true},
		{name: "unknown", raw: Unknown, wantOK: false},
		{name: "empty", raw: "", wantOK: false},
		{name: "malformed", raw: "yesterday", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := Info{BuildTime: tt.raw}.ParseBuildTime()
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && !ts.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected time %s", ts)
			}
		})
	}
}
