// Package buildinfo reports the version coursekit was built from.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// BinaryVersion, Commit and BuildDate are set at build time via -ldflags.
var (
	BinaryVersion = "dev"
	Commit        = ""
	BuildDate     = ""
)

// Info is the version payload printed by `coursekit version`.
type Info struct {
	Version       string `json:"version" yaml:"version"`
	ModuleVersion string `json:"module_version,omitempty" yaml:"module_version,omitempty"`
	Commit        string `json:"commit,omitempty" yaml:"commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion     string `json:"go_version" yaml:"go_version"`
	Platform      string `json:"platform" yaml:"platform"`
}

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// vcsRevision falls back to the revision stamped by the toolchain.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Current collects the build information of the running binary.
func Current() Info {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	return Info{
		Version:       BinaryVersion,
		ModuleVersion: ModuleVersion(),
		Commit:        commit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}
}
