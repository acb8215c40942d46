// Package p4a drives the python-for-android toolchain. It assembles the
// command line for APK builds, injects the Android SDK environment, and
// normalizes where the built artefact ends up.
package p4a

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/droidcase-labs/droidcase/internal/project"
	"github.com/droidcase-labs/droidcase/internal/runner"
)

// DefaultBinary is the toolchain entry point used when none is configured.
const DefaultBinary = "p4a"

// Driver invokes the python-for-android toolchain for one project layout.
type Driver struct {
	// Binary is the p4a executable.
	Binary string
	// Layout resolves project paths for apps.
	Layout project.Layout
	// Env holds the Android SDK/NDK environment merged into every
	// invocation.
	Env map[string]string
	// Stdout and Stderr receive toolchain output.
	Stdout io.Writer
	Stderr io.Writer

	run    runner.Runner
	logger *slog.Logger
}

// New creates a Driver. An empty binary selects DefaultBinary; a nil logger
// discards log output.
func New(binary string, layout project.Layout, env map[string]string, run runner.Runner, logger *slog.Logger) *Driver {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		Binary: binary,
		Layout: layout,
		Env:    env,
		run:    run,
		logger: logger,
	}
}

// BuildOptions control a single APK build.
type BuildOptions struct {
	// Release builds a release APK instead of a debug one.
	Release bool
	// Permissions are granted android.permission.* names.
	Permissions []string
	// LocalRecipes points at a local recipe override directory, when one
	// was generated for the project.
	LocalRecipes string
}

// Version reports the toolchain version, for health checks.
func (d *Driver) Version(ctx context.Context) (string, error) {
	out, err := d.run.Output(ctx, runner.Command{Path: d.Binary, Args: []string{"--version"}})
	if err != nil {
		return "", fmt.Errorf("python-for-android is not available: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// BuildAPK runs a p4a apk build for the app and returns the path of the APK
// at the expected binary location.
func (d *Driver) BuildAPK(ctx context.Context, app *project.App, opts BuildOptions) (string, error) {
	args := []string{
		"apk",
		"--private", d.Layout.SourcePath(app),
		"--package", app.Bundle,
		"--name", app.FormalName,
		"--version", app.Version,
	}
	if opts.Release {
		args = append(args, "--release")
	} else {
		args = append(args, "--debug")
	}
	for _, permission := range opts.Permissions {
		args = append(args, "--permission", permission)
	}
	if opts.LocalRecipes != "" {
		args = append(args, "--local-recipes", opts.LocalRecipes)
	}

	d.logger.Info("building APK", "app", app.Name, "release", opts.Release)

	err := d.run.Run(ctx, runner.Command{
		Path:   d.Binary,
		Args:   args,
		Dir:    d.Layout.BundlePath(app),
		Env:    d.Env,
		Stdout: d.Stdout,
		Stderr: d.Stderr,
	})
	if err != nil {
		return "", fmt.Errorf("APK build failed: %w", err)
	}

	return d.locateAPK(app)
}

// locateAPK finds the built APK among the locations different toolchain
// versions write to and moves it to the expected binary path.
func (d *Driver) locateAPK(app *project.App) (string, error) {
	expected := d.Layout.BinaryPath(app)

	for _, candidate := range d.Layout.CandidateAPKPaths(app) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if candidate != expected {
			if err := os.Rename(candidate, expected); err != nil {
				return "", fmt.Errorf("failed to move built APK into place: %w", err)
			}
			d.logger.Debug("moved built APK", "from", candidate, "to", expected)
		}
		return expected, nil
	}

	return "", fmt.Errorf("unable to find the APK generated by the toolchain at %s", expected)
}
