package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidcase-labs/droidcase/internal/cli/config"
)

func TestInitCreatesProject(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	stdout, _, err := execute(t, NewInitCommand(), "--name", "myapp", "--bundle", "org.example")
	require.NoError(t, err)
	assert.Contains(t, stdout, "initialized")

	cfgBytes, err := os.ReadFile(filepath.Join(dir, "droidcase.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfgBytes), "name: myapp")
	assert.Contains(t, string(cfgBytes), "bundle: org.example")

	main, err := os.ReadFile(filepath.Join(dir, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "Hello from Myapp!")

	// The generated config must load cleanly.
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.App)
	assert.Equal(t, "myapp", cfg.App.Name)
}

func TestInitRejectsInvalidName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	_, _, err := execute(t, NewInitCommand(), "--name", "My App")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase identifier")
}

func TestInitPreservesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	existing := []byte("app:\n  name: keepme\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "droidcase.yaml"), existing, 0o600))

	stdout, _, err := execute(t, NewInitCommand(), "--name", "myapp")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists, skipped")

	content, err := os.ReadFile(filepath.Join(dir, "droidcase.yaml"))
	require.NoError(t, err)
	assert.Equal(t, existing, content)
}
