package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPyjniusOverride(t *testing.T) {
	r := PyjniusOverride()

	assert.Equal(t, "pyjnius", r.Name)
	assert.Equal(t, "master", r.Version)
	assert.Contains(t, r.URL, "refs/heads/master.zip")
	assert.Equal(t, "jnius", r.SitePackageName)
	assert.Equal(t, "NOTNONE", r.Env["NDKPLATFORM"])

	require.Len(t, r.Depends, 2)
	assert.Equal(t, []string{"genericndkbuild", "sdl2"}, r.Depends[0].Alternatives)
	assert.Equal(t, []string{"six"}, r.Depends[1].Alternatives)
}

func TestWriteOverride(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteOverride(dir, PyjniusOverride())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pyjnius", "__init__.py"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "class PyjniusRecipe(CythonRecipe):")
	assert.Contains(t, text, "version = 'master'")
	assert.Contains(t, text, "url = 'https://github.com/kivy/pyjnius/archive/refs/heads/master.zip'")
	assert.Contains(t, text, "depends = [('genericndkbuild', 'sdl2'), 'six']")
	assert.Contains(t, text, "site_packages_name = 'jnius'")
	assert.Contains(t, text, "patches = [('genericndkbuild_jnienv_getter.patch', will_build('genericndkbuild'))]")
	assert.Contains(t, text, "env['NDKPLATFORM'] = 'NOTNONE'")
	assert.Contains(t, text, "recipe = PyjniusRecipe()")
}

func TestWriteOverrideMinimalRecipe(t *testing.T) {
	dir := t.TempDir()

	r := Recipe{
		Name:    "six",
		Version: "1.16.0",
		URL:     "https://pypi.io/packages/source/s/six/six-1.16.0.tar.gz",
	}
	path, err := WriteOverride(dir, r)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "class SixRecipe(CythonRecipe):")
	assert.NotContains(t, text, "patches =")
	assert.NotContains(t, text, "get_recipe_env")
}

func TestWriteOverridesInOrder(t *testing.T) {
	dir := t.TempDir()

	paths, err := WriteOverrides(dir, []Recipe{
		PyjniusOverride(),
		{Name: "six", Version: "1.16.0"},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// The dependency is written before its dependent.
	assert.Equal(t, filepath.Join(dir, "six", "__init__.py"), paths[0])
	assert.Equal(t, filepath.Join(dir, "pyjnius", "__init__.py"), paths[1])

	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestWriteOverridesRejectsBadSet(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteOverrides(dir, []Recipe{
		{Name: "a", Depends: []Dependency{Dep("b")}},
		{Name: "b", Depends: []Dependency{Dep("a")}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")

	// Nothing was written for an invalid set.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewGraphBuildOrder(t *testing.T) {
	recipes := []Recipe{
		{Name: "pyjnius", Depends: []Dependency{Either("genericndkbuild", "sdl2"), Dep("six")}},
		{Name: "six"},
		{Name: "sdl2"},
	}

	g, err := NewGraph(recipes)
	require.NoError(t, err)

	order := g.BuildOrder()
	require.Len(t, order, 3)
	assert.Equal(t, "pyjnius", order[len(order)-1])
	assert.Less(t, indexOf(order, "six"), indexOf(order, "pyjnius"))
	assert.Less(t, indexOf(order, "sdl2"), indexOf(order, "pyjnius"))

	// The in-set alternative (sdl2) is preferred over the absent first one.
	assert.ElementsMatch(t, []string{"sdl2", "six"}, g.DependenciesOf("pyjnius"))
	assert.Equal(t, []string{"pyjnius"}, g.DependentsOf("six"))
}

func TestNewGraphExternalDependenciesIgnored(t *testing.T) {
	g, err := NewGraph([]Recipe{
		{Name: "pyjnius", Depends: []Dependency{Either("genericndkbuild", "sdl2"), Dep("six")}},
	})
	require.NoError(t, err)

	assert.Empty(t, g.DependenciesOf("pyjnius"))
	assert.Equal(t, []string{"pyjnius"}, g.BuildOrder())
}

func TestNewGraphDetectsCycle(t *testing.T) {
	_, err := NewGraph([]Recipe{
		{Name: "a", Depends: []Dependency{Dep("b")}},
		{Name: "b", Depends: []Dependency{Dep("a")}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNewGraphRejectsSelfDependency(t *testing.T) {
	_, err := NewGraph([]Recipe{
		{Name: "a", Depends: []Dependency{Dep("a")}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depends on itself")
}

func TestNewGraphRejectsDuplicates(t *testing.T) {
	_, err := NewGraph([]Recipe{{Name: "a"}, {Name: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestBuildOrderDeterministic(t *testing.T) {
	recipes := []Recipe{
		{Name: "c", Depends: []Dependency{Dep("a")}},
		{Name: "b", Depends: []Dependency{Dep("a")}},
		{Name: "a"},
	}

	g, err := NewGraph(recipes)
	require.NoError(t, err)
	first := g.BuildOrder()

	for i := 0; i < 5; i++ {
		g2, err := NewGraph(recipes)
		require.NoError(t, err)
		assert.Equal(t, first, g2.BuildOrder())
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
