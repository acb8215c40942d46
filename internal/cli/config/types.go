// Package config provides configuration management for the droidcase CLI.
//
// Configuration is assembled from defaults, the project's droidcase.yaml,
// DROIDCASE_ environment variables, and command-line flags, in increasing
// order of precedence.
package config

import (
	"github.com/droidcase-labs/droidcase/internal/project"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is inferred from flags or the config file location, not
	// read from configuration itself.
	ProjectRoot string `koanf:"-"`

	BuildDir  string `koanf:"build_dir"`
	DistDir   string `koanf:"dist_dir"`
	StatePath string `koanf:"state_path"`

	// Python is the interpreter binary used for toolchain probes.
	Python string `koanf:"python"`
	// P4ABinary is the python-for-android entry point.
	P4ABinary string `koanf:"p4a"`
	// SDKRoot overrides ANDROID_HOME/ANDROID_SDK_ROOT detection.
	SDKRoot string `koanf:"sdk_root"`
	// Device is a default adb device serial for run commands.
	Device string `koanf:"device"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// App is the application definition from the [app] section.
	App *project.App `koanf:"app"`
}

// Layout returns the path layout for the configured project.
func (c *Config) Layout() project.Layout {
	layout := project.NewLayout(c.ProjectRoot)
	if c.BuildDir != "" {
		layout.BuildDir = c.BuildDir
	}
	if c.DistDir != "" {
		layout.DistDir = c.DistDir
	}
	return layout
}

// Default configuration values.
const (
	DefaultBuildDir  = "build"
	DefaultDistDir   = "dist"
	DefaultStateFile = ".droidcase/state.db"
	DefaultPython    = "python3"
	DefaultP4A       = "p4a"
	DefaultOutput    = "auto"
)
