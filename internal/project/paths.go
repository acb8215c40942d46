package project

import (
	"fmt"
	"path/filepath"
)

// Layout resolves where an app's generated project, build outputs and
// distributable artefacts live under the project root.
type Layout struct {
	// Root is the project root directory.
	Root string
	// BuildDir is the build tree, relative to Root unless absolute.
	BuildDir string
	// DistDir receives published artefacts, relative to Root unless absolute.
	DistDir string
}

// NewLayout creates a Layout with the default build/ and dist/ directories.
func NewLayout(root string) Layout {
	return Layout{Root: root, BuildDir: "build", DistDir: "dist"}
}

func (l Layout) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(l.Root, dir)
}

// BundlePath is the generated Android project directory for an app. The
// toolchain templates key the innermost directory off the app name rather
// than the output format.
func (l Layout) BundlePath(app *App) string {
	return filepath.Join(l.resolve(l.BuildDir), app.Name, "android", "p4a", app.Name)
}

// SourcePath is the Python source tree inside the generated project.
func (l Layout) SourcePath(app *App) string {
	return filepath.Join(l.BundlePath(app), app.SourceDir)
}

// RecipesPath is the local build-recipe override directory inside the
// generated project.
func (l Layout) RecipesPath(app *App) string {
	return filepath.Join(l.BundlePath(app), "recipes")
}

// BinaryPath is where the built debug APK is expected after a build.
func (l Layout) BinaryPath(app *App) string {
	return filepath.Join(l.BundlePath(app), fmt.Sprintf("%s-debug.apk", app.FormalName))
}

// DistributionPath is the published artefact location for the app's
// packaging format.
func (l Layout) DistributionPath(app *App) (string, error) {
	ext, err := app.PackagingFormat.DistributionExt()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.%s", app.FormalName, app.Version, ext)
	return filepath.Join(l.resolve(l.DistDir), name), nil
}

// CandidateAPKPaths lists the locations a freshly built APK may appear in,
// most likely first. Toolchain versions differ in how they name the output.
func (l Layout) CandidateAPKPaths(app *App) []string {
	bundle := l.BundlePath(app)
	return []string{
		filepath.Join(bundle, fmt.Sprintf("%s-debug.apk", app.FormalName)),
		filepath.Join(bundle, fmt.Sprintf("%s-debug.apk", app.Name)),
		filepath.Join(bundle, "dist", fmt.Sprintf("%s-debug.apk", app.FormalName)),
	}
}
