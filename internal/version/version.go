package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/airmap/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/airmap/internal/version.Commit=abc1234"
var (
	Version = ""
	Commit  = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var (
	resolved Info
	once     sync.Once
)

// Get returns the build information, filling anything not set via ldflags
// from the module build info.
func Get() Info {
	once.Do(func() {
		resolved = resolve(Version, Commit, readBuildInfo())
	})
	return resolved
}

type buildInfo struct {
	mainVersion string
	revision    string
	modified    bool
	vcsTime     time.Time
}

func readBuildInfo() buildInfo {
	var b buildInfo
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}

	b.mainVersion = info.Main.Version
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.revision = setting.Value
		case "vcs.modified":
			b.modified = setting.Value == "true"
		case "vcs.time":
			b.vcsTime, _ = time.Parse(time.RFC3339, setting.Value)
		}
	}
	return b
}

func resolve(ver, commit string, b buildInfo) Info {
	if commit == "" && b.revision != "" {
		commit = b.revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if b.modified {
			commit += "-dirty"
		}
	}
	if commit == "" {
		commit = "unknown"
	}

	if ver == "" && b.mainVersion != "" && b.mainVersion != "(devel)" {
		ver = b.mainVersion
	}
	if ver == "" && !b.vcsTime.IsZero() {
		ver = "dev-" + b.vcsTime.Format("20060102")
	}
	if ver == "" {
		ver = "dev"
	}

	return Info{
		Version:   ver,
		Commit:    commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns just the version
func Short() string {
	return Get().Version
}

// Full returns the full version string including commit
func Full() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s, %s, %s)", i.Version, i.Commit, i.GoVersion, i.Platform)
}
