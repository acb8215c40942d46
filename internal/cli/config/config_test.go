package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "droidcase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("project-dir", "", "")
	fs.String("output", "", "")
	fs.String("state", "", "")
	fs.String("python", "", "")
	fs.Bool("verbose", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBuildDir, cfg.BuildDir)
	assert.Equal(t, DefaultDistDir, cfg.DistDir)
	assert.Equal(t, DefaultPython, cfg.Python)
	assert.Equal(t, DefaultP4A, cfg.P4ABinary)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Nil(t, cfg.App)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, `
build_dir: out
sdk_root: /opt/android-sdk
app:
  name: helloworld
  formal_name: Hello World
  bundle: com.example
  version: 1.2.3
  requirements:
    - requests>=2.31
  permissions:
    camera: To scan barcodes
`)
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, "/opt/android-sdk", cfg.SDKRoot)
	require.NotNil(t, cfg.App)
	assert.Equal(t, "helloworld", cfg.App.Name)
	assert.Equal(t, "Hello World", cfg.App.FormalName)
	assert.Equal(t, "com.example", cfg.App.Bundle)
	assert.Equal(t, []string{"requests>=2.31"}, cfg.App.Requirements)
	assert.Equal(t, "To scan barcodes", cfg.App.Permissions["camera"])
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: text\n")
	t.Chdir(dir)
	t.Setenv("DROIDCASE_OUTPUT", "json")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DROIDCASE_OUTPUT", "json")

	cfg, err := LoadConfig("", testFlags(t, "--output", "markdown"))
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
}

func TestLoadConfigStateFlagMapsToStatePath(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", testFlags(t, "--state", "history.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "history.db"), cfg.StatePath)
}

func TestLoadConfigFindsRootUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "build_dir: out\n")

	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.BuildDir)

	// macOS resolves TempDir through symlinks, compare resolved paths.
	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestLoadConfigExplicitFileAnchorsRoot(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "dist_dir: artifacts\n")

	other := t.TempDir()
	t.Chdir(other)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "artifacts", cfg.DistDir)
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot)
}

func TestLoadConfigRejectsInvalidApp(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, `
app:
  name: "Not Valid!"
  bundle: com.example
  version: 1.0.0
`)
	t.Chdir(dir)

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid app configuration")
}

func TestRequireApp(t *testing.T) {
	cfg := &Config{ProjectRoot: t.TempDir()}
	err := cfg.RequireApp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "droidcase init")
}

func TestValidateProjectMissingBundle(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, `
app:
  name: helloworld
  bundle: com.example
  version: 1.0.0
`)
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	err = cfg.ValidateProject()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "droidcase create")
}
