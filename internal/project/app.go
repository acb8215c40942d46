// Package project models the application being packaged: its configuration,
// its on-disk layout, and the Android permission set derived from it.
package project

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultActivity is launched when the app declares no activity of its own.
const DefaultActivity = "org.kivy.android.PythonActivity"

// PackagingFormat selects the artefact produced by the package command.
type PackagingFormat string

const (
	FormatAPK      PackagingFormat = "apk"
	FormatDebugAPK PackagingFormat = "debug-apk"
)

// DistributionExt returns the artefact extension for a packaging format.
func (f PackagingFormat) DistributionExt() (string, error) {
	switch f {
	case FormatAPK:
		return "apk", nil
	case FormatDebugAPK:
		return "debug.apk", nil
	default:
		return "", fmt.Errorf("unknown packaging format %q (expected apk or debug-apk)", string(f))
	}
}

// App is the configuration of one application in a droidcase project.
type App struct {
	// Name is the machine name, used for directories and the source module.
	Name string `koanf:"name"`
	// FormalName is the human-readable name baked into artefact names.
	FormalName string `koanf:"formal_name"`
	// Bundle is the reverse-DNS Android package identifier.
	Bundle string `koanf:"bundle"`
	// Version is the application version string.
	Version string `koanf:"version"`
	// Description is shown in generated project metadata.
	Description string `koanf:"description"`
	// SourceDir holds the Python sources, relative to the project root.
	SourceDir string `koanf:"source_dir"`
	// Requirements are additional Python dependencies beyond the ones the
	// toolchain injects itself.
	Requirements []string `koanf:"requirements"`
	// Permissions maps cross-platform permission keys (camera, microphone,
	// fine_location, ...) or raw android.permission.* names to a reason
	// string explaining why the app needs them.
	Permissions map[string]string `koanf:"permissions"`
	// Features maps android.hardware.* feature names to whether they are
	// required.
	Features map[string]bool `koanf:"features"`
	// Activity overrides the launch activity.
	Activity string `koanf:"activity"`
	// PackagingFormat selects the artefact type for package/publish.
	PackagingFormat PackagingFormat `koanf:"packaging_format"`
}

var (
	nameRe   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	bundleRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
)

// Validate checks the fields a build cannot proceed without and fills
// defaulted ones.
func (a *App) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if !nameRe.MatchString(a.Name) {
		return fmt.Errorf("app name %q must be a lowercase identifier", a.Name)
	}
	if a.Bundle == "" {
		return fmt.Errorf("app bundle identifier is required")
	}
	if !bundleRe.MatchString(a.Bundle) {
		return fmt.Errorf("app bundle %q must be a reverse-DNS identifier (e.g. com.example)", a.Bundle)
	}
	if a.Version == "" {
		return fmt.Errorf("app version is required")
	}

	if a.FormalName == "" {
		a.FormalName = strings.Title(strings.ReplaceAll(a.Name, "_", " ")) //nolint:staticcheck // ASCII app names
	}
	if a.SourceDir == "" {
		a.SourceDir = "src"
	}
	if a.Activity == "" {
		a.Activity = DefaultActivity
	}
	if a.PackagingFormat == "" {
		a.PackagingFormat = FormatAPK
	}
	if _, err := a.PackagingFormat.DistributionExt(); err != nil {
		return err
	}
	return nil
}
