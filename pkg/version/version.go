// Package version exposes the build-time version identity stamped in by
// the release process via -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of this build, "dev" when unset.
	Version = "dev"

	// GitCommit is the commit SHA this binary was built from.
	GitCommit = "unknown"

	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)

// Info bundles the version fields for display and JSON output.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// Get returns the current build's version info.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("Version: %s, GitCommit: %s, BuildTime: %s, GoVersion: %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion)
}

// JSON renders the info as indented JSON.
func (i Info) JSON() (string, error) {
	bytes, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
