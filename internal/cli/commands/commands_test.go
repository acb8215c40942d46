package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidcase-labs/droidcase/internal/cli/config"
	"github.com/droidcase-labs/droidcase/internal/cli/testutil"
	"github.com/droidcase-labs/droidcase/internal/runner"
	"github.com/droidcase-labs/droidcase/internal/state"
)

// withFakeRunner swaps the command runner for a fake for the test's duration.
func withFakeRunner(t *testing.T, fake *runner.Fake) {
	t.Helper()

	old := runnerFactory
	runnerFactory = func(*slog.Logger) runner.Runner { return fake }
	t.Cleanup(func() { runnerFactory = old })
}

// loadProject chdirs into a test project and loads its configuration.
func loadProject(t *testing.T) *config.Config {
	t.Helper()

	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return cfg
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func pipShowOutput(version string) string {
	return "Name: pyjnius\nVersion: " + version + "\nSummary: Python to Java bridge\n"
}

func TestCreateStablePython(t *testing.T) {
	cfg := loadProject(t)

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.11.4\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, fake)

	_, stderr, err := execute(t, NewCreateCommand())
	require.NoError(t, err)
	assert.Empty(t, stderr)

	bundle := cfg.Layout().BundlePath(cfg.App)
	reqs, err := os.ReadFile(filepath.Join(bundle, "requirements.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reqs), "pyjnius>=1.4.1")
	assert.NotContains(t, string(reqs), "git+")

	// No recipe override for a stable selection.
	_, err = os.Stat(filepath.Join(cfg.Layout().RecipesPath(cfg.App), "pyjnius"))
	assert.True(t, os.IsNotExist(err))

	// The app's own source was copied into the generated project.
	main, err := os.ReadFile(filepath.Join(cfg.Layout().SourcePath(cfg.App), "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "print('hello')")
}

func TestCreateDevelopmentBranchOnPython313(t *testing.T) {
	cfg := loadProject(t)

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.13.1\n", nil)
	fake.Respond("pip show", pipShowOutput("1.6.1"), nil)
	withFakeRunner(t, fake)

	_, stderr, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	// Installed 1.6.1 conflicts with the development selection.
	assert.Contains(t, stderr, "not compatible with Python 3.13.1")

	bundle := cfg.Layout().BundlePath(cfg.App)
	reqs, err := os.ReadFile(filepath.Join(bundle, "requirements.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reqs), "git+https://github.com/kivy/pyjnius.git")

	override := filepath.Join(cfg.Layout().RecipesPath(cfg.App), "pyjnius", "__init__.py")
	content, err := os.ReadFile(override)
	require.NoError(t, err)
	assert.Contains(t, string(content), "class PyjniusRecipe")
}

func TestCreateReportsCompatibleBridgeInstall(t *testing.T) {
	loadProject(t)

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.13.1\n", nil)
	fake.Respond("pip show", pipShowOutput("2.0.0"), nil)
	withFakeRunner(t, fake)

	stdout, stderr, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	// A development-capable install produces an info line, not a warning.
	assert.Contains(t, stdout, "Found pyjnius 2.0.0, compatible with Python 3.13.1")
	assert.Empty(t, stderr)
}

func TestCreateNotesBridgeAutoInstall(t *testing.T) {
	loadProject(t)

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.13.1\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, fake)

	stdout, stderr, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	assert.Contains(t, stdout, "pyjnius is not installed; the build will install it automatically")
	assert.Empty(t, stderr)
}

func TestUpdateDropsStaleOverride(t *testing.T) {
	cfg := loadProject(t)

	// Create under 3.13 to get the development branch and the override.
	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.13.1\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, fake)

	_, _, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	overrideDir := filepath.Join(cfg.Layout().RecipesPath(cfg.App), "pyjnius")
	_, err = os.Stat(overrideDir)
	require.NoError(t, err)

	// Update under 3.11: the stable line comes back, the override goes.
	downgraded := &runner.Fake{}
	downgraded.Respond("--version", "Python 3.11.4\n", nil)
	downgraded.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, downgraded)

	_, _, err = execute(t, NewUpdateCommand())
	require.NoError(t, err)

	_, err = os.Stat(overrideDir)
	assert.True(t, os.IsNotExist(err))

	reqs, err := os.ReadFile(filepath.Join(cfg.Layout().BundlePath(cfg.App), "requirements.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reqs), "pyjnius>=1.4.1")
}

// setupFakeSDK creates an SDK directory with an NDK and adb in place.
func setupFakeSDK(t *testing.T) string {
	t.Helper()

	sdk := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sdk, "ndk", "25.2.9519653"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(sdk, "platform-tools"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sdk, "platform-tools", "adb"), []byte("#!/bin/sh\n"), 0o700))
	return sdk
}

func TestBuildRecordsHistory(t *testing.T) {
	cfg := loadProject(t)
	t.Setenv("ANDROID_HOME", setupFakeSDK(t))

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.11.4\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, fake)

	_, _, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	// The fake toolchain produces no file; drop one where the build looks.
	binary := cfg.Layout().BinaryPath(cfg.App)
	require.NoError(t, os.WriteFile(binary, []byte("apk"), 0o600))
	fake.Respond("p4a apk", "", nil)

	stdout, _, err := execute(t, NewBuildCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Built "+binary)

	histOut, _, err := execute(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, histOut, "helloworld")
	assert.Contains(t, histOut, "completed")

	// Inspect the store directly rather than parsing table output.
	store, err := state.Open(cfg.StatePath)
	require.NoError(t, err)
	defer store.Close()

	latest, err := store.LatestBuild(cfg.App.Name)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "build", latest.Command)
	assert.Equal(t, "debug", latest.Variant)
	assert.Equal(t, binary, latest.APKPath)
}

func TestPackageCopiesToDist(t *testing.T) {
	cfg := loadProject(t)
	t.Setenv("ANDROID_HOME", setupFakeSDK(t))

	fake := &runner.Fake{}
	fake.Respond("--version", "Python 3.11.4\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	withFakeRunner(t, fake)

	_, _, err := execute(t, NewCreateCommand())
	require.NoError(t, err)

	binary := cfg.Layout().BinaryPath(cfg.App)
	require.NoError(t, os.WriteFile(binary, []byte("apk"), 0o600))
	fake.Respond("p4a apk", "", nil)

	stdout, _, err := execute(t, NewPackageCommand())
	require.NoError(t, err)

	dist, err := cfg.Layout().DistributionPath(cfg.App)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Packaged Hello World as "+dist)

	content, err := os.ReadFile(dist)
	require.NoError(t, err)
	assert.Equal(t, []byte("apk"), content)

	// The default apk format runs a release build.
	lines := fake.CommandLines()
	last := lines[len(lines)-1]
	assert.Contains(t, last, "--release")
}

func TestDoctorJSON(t *testing.T) {
	loadProject(t)
	t.Setenv("ANDROID_HOME", setupFakeSDK(t))

	fake := &runner.Fake{}
	fake.Respond("python3 --version", "Python 3.13.1\n", nil)
	fake.Respond("pip show", pipShowOutput("1.6.1"), nil)
	fake.Respond("p4a --version", "2024.1.21\n", nil)
	withFakeRunner(t, fake)

	stdout, _, err := execute(t, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Healthy)

	byName := map[string]EnvCheck{}
	for _, c := range out.Checks {
		byName[c.Name] = c
	}
	assert.Equal(t, "ok", byName["python"].Status)
	assert.Equal(t, "3.13.1", byName["python"].Detail)
	assert.Equal(t, "warning", byName["java bridge"].Status)
	assert.Equal(t, "ok", byName["python-for-android"].Status)
	assert.Equal(t, "2024.1.21", byName["python-for-android"].Detail)
	assert.Equal(t, "ok", byName["android sdk"].Status)
	assert.Equal(t, "25.2.9519653", byName["android ndk"].Detail)
	assert.Equal(t, "ok", byName["adb"].Status)
}

func TestDoctorReportsMissingToolchain(t *testing.T) {
	loadProject(t)
	t.Setenv("ANDROID_HOME", "")
	t.Setenv("ANDROID_SDK_ROOT", "")

	fake := &runner.Fake{}
	fake.Respond("python3 --version", "Python 3.11.4\n", nil)
	fake.Respond("pip show", "", os.ErrNotExist)
	// No p4a response registered: the fake errors, like a missing binary.
	withFakeRunner(t, fake)

	stdout, _, err := execute(t, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Healthy)

	byName := map[string]EnvCheck{}
	for _, c := range out.Checks {
		byName[c.Name] = c
	}
	assert.Equal(t, "error", byName["python-for-android"].Status)
	assert.Equal(t, "error", byName["android sdk"].Status)
	assert.Equal(t, "warning", byName["android ndk"].Status)
}
