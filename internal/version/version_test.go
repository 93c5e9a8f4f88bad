package version

import (
	"strings"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	vcsTime := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ver        string
		commit     string
		build      buildInfo
		wantVer    string
		wantCommit string
	}{
		{"ldflags win", "v1.2.3", "abc1234", buildInfo{mainVersion: "v0.0.1", revision: "ffffffffff"}, "v1.2.3", "abc1234"},
		{"module version", "", "", buildInfo{mainVersion: "v0.4.0"}, "v0.4.0", "unknown"},
		{"devel uses vcs time", "", "", buildInfo{mainVersion: "(devel)", revision: "0123456789abcdef", vcsTime: vcsTime}, "dev-20250314", "0123456"},
		{"dirty tree", "", "", buildInfo{revision: "0123456789", modified: true}, "dev", "0123456-dirty"},
		{"nothing known", "", "", buildInfo{}, "dev", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.ver, tt.commit, tt.build)
			if got.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", got.Version, tt.wantVer)
			}
			if got.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", got.Commit, tt.wantCommit)
			}
			if got.GoVersion == "" || !strings.Contains(got.Platform, "/") {
				t.Errorf("runtime fields not filled: %+v", got)
			}
		})
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Short()) {
		t.Errorf("Full() = %q should start with Short() = %q", full, Short())
	}
	if !strings.Contains(full, "commit:") {
		t.Errorf("Full() = %q should mention the commit", full)
	}
}
