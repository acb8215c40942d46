package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidcase-labs/droidcase/internal/project"
)

func testContext(t *testing.T) Context {
	t.Helper()

	app := &project.App{
		Name:         "helloworld",
		FormalName:   "Hello World",
		Bundle:       "com.example",
		Version:      "0.0.1",
		Requirements: []string{"requests>=2.31"},
		Permissions:  map[string]string{"camera": "To scan barcodes"},
	}
	require.NoError(t, app.Validate())

	return Context{
		App:                app,
		Permissions:        project.BuildPermissionsContext(app),
		PyjniusRequirement: "pyjnius>=1.4.1",
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()

	written, err := Generate(dir, testContext(t), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"requirements.txt",
		"project.toml",
		".gitignore",
		filepath.Join("src", "main.py"),
	}, written)

	reqs, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reqs), "pyjnius>=1.4.1")
	assert.Contains(t, string(reqs), "requests>=2.31")

	meta, err := os.ReadFile(filepath.Join(dir, "project.toml"))
	require.NoError(t, err)
	text := string(meta)
	assert.Contains(t, text, `package = "com.example"`)
	assert.Contains(t, text, `"android.permission.CAMERA"`)
	assert.Contains(t, text, `"android.permission.INTERNET"`)
	assert.Contains(t, text, `{ name = "android.hardware.camera", required = false }`)
	assert.NotContains(t, text, "local_recipes")

	main, err := os.ReadFile(filepath.Join(dir, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "Hello from Hello World!")
}

func TestGenerateLocalRecipes(t *testing.T) {
	dir := t.TempDir()

	ctx := testContext(t)
	ctx.PyjniusRequirement = "git+https://github.com/kivy/pyjnius.git"
	ctx.UsesLocalRecipes = true

	_, err := Generate(dir, ctx, false)
	require.NoError(t, err)

	meta, err := os.ReadFile(filepath.Join(dir, "project.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `local_recipes = "recipes"`)

	reqs, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reqs), "git+https://github.com/kivy/pyjnius.git")
}

func TestGeneratePreservesExistingFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	edited := []byte("print('user edit')\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.py"), edited, 0o600))

	written, err := Generate(dir, testContext(t), false)
	require.NoError(t, err)
	assert.NotContains(t, written, filepath.Join("src", "main.py"))

	content, err := os.ReadFile(filepath.Join(dir, "src", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, edited, content)
}

func TestGenerateForceOverwrites(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.py"), []byte("old"), 0o600))

	written, err := Generate(dir, testContext(t), true)
	require.NoError(t, err)
	assert.Contains(t, written, filepath.Join("src", "main.py"))

	content, err := os.ReadFile(filepath.Join(dir, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Hello from Hello World!")
}
