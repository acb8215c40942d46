// Package recipe models python-for-android build recipes and the local
// recipe overrides droidcase injects into generated projects.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// Dependency is one dependency slot of a recipe. Most slots hold a single
// name; some offer alternatives of which exactly one must be built (for
// example a Java bootstrap provided by either genericndkbuild or sdl2).
type Dependency struct {
	Alternatives []string
}

// Dep is a convenience constructor for a single-name dependency.
func Dep(name string) Dependency {
	return Dependency{Alternatives: []string{name}}
}

// Either constructs a dependency satisfied by any one of the given recipes.
func Either(names ...string) Dependency {
	return Dependency{Alternatives: names}
}

// Recipe describes how one package is built inside the toolchain.
type Recipe struct {
	// Name is the recipe name as known to python-for-android.
	Name string
	// Version is the version or branch the recipe builds.
	Version string
	// URL is the source archive location.
	URL string
	// Depends lists the recipes that must be built first.
	Depends []Dependency
	// Env holds extra environment variables for the recipe build.
	Env map[string]string
	// Patches are patch files applied to the unpacked source, optionally
	// conditional on another recipe being built.
	Patches []Patch
	// SitePackageName is the import name when it differs from Name.
	SitePackageName string
}

// Patch is a patch file applied during a recipe build.
type Patch struct {
	File string
	// IfBuilding restricts the patch to builds that include this recipe.
	IfBuilding string
}

// PyjniusOverride is the local recipe that builds the Java-bridge library
// from its development branch. It is written into generated projects when
// the interpreter requires the unreleased pyjnius line; the archive of the
// master branch is the only source carrying the Python 3.13 fixes.
func PyjniusOverride() Recipe {
	return Recipe{
		Name:    "pyjnius",
		Version: "master",
		URL:     "https://github.com/kivy/pyjnius/archive/refs/heads/master.zip",
		Depends: []Dependency{
			Either("genericndkbuild", "sdl2"),
			Dep("six"),
		},
		// The recipe build uses NDKPLATFORM to detect Android; it must not
		// be empty.
		Env:             map[string]string{"NDKPLATFORM": "NOTNONE"},
		Patches:         []Patch{{File: "genericndkbuild_jnienv_getter.patch", IfBuilding: "genericndkbuild"}},
		SitePackageName: "jnius",
	}
}

// recipe files are Python modules consumed by the p4a build system.
var overrideTemplate = template.Must(template.New("recipe").Parse(`from pythonforandroid.recipe import CythonRecipe
from pythonforandroid.patching import will_build


class {{.ClassName}}Recipe(CythonRecipe):
    version = '{{.R.Version}}'
    url = '{{.R.URL}}'
    name = '{{.R.Name}}'
    depends = [{{.DependsLiteral}}]
{{- if .R.SitePackageName}}
    site_packages_name = '{{.R.SitePackageName}}'
{{- end}}
{{- if .R.Patches}}
    patches = [{{.PatchesLiteral}}]
{{- end}}
{{- if .R.Env}}

    def get_recipe_env(self, arch):
        env = super().get_recipe_env(arch)
{{- range .EnvPairs}}
        env['{{.Key}}'] = '{{.Value}}'
{{- end}}
        return env
{{- end}}


recipe = {{.ClassName}}Recipe()
`))

type envPair struct{ Key, Value string }

// WriteOverride renders the recipe into <dir>/<name>/__init__.py, the layout
// python-for-android expects for local recipe overrides.
func WriteOverride(dir string, r Recipe) (string, error) {
	recipeDir := filepath.Join(dir, r.Name)
	if err := os.MkdirAll(recipeDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create recipe directory: %w", err)
	}

	pairs := make([]envPair, 0, len(r.Env))
	for k, v := range r.Env {
		pairs = append(pairs, envPair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })

	data := struct {
		R              Recipe
		ClassName      string
		DependsLiteral string
		PatchesLiteral string
		EnvPairs       []envPair
	}{
		R:              r,
		ClassName:      className(r.Name),
		DependsLiteral: dependsLiteral(r.Depends),
		PatchesLiteral: patchesLiteral(r.Patches),
		EnvPairs:       pairs,
	}

	path := filepath.Join(recipeDir, "__init__.py")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create recipe file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := overrideTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render recipe %s: %w", r.Name, err)
	}
	return path, nil
}

// WriteOverrides validates a recipe set and writes every override into dir
// in dependency order. Duplicate names, self-dependencies, and cycles are
// rejected before anything is written.
func WriteOverrides(dir string, recipes []Recipe) ([]string, error) {
	g, err := NewGraph(recipes)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(recipes))
	for _, name := range g.BuildOrder() {
		r, _ := g.Recipe(name)
		path, err := WriteOverride(dir, r)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func className(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func dependsLiteral(deps []Dependency) string {
	items := make([]string, 0, len(deps))
	for _, d := range deps {
		if len(d.Alternatives) == 1 {
			items = append(items, fmt.Sprintf("'%s'", d.Alternatives[0]))
			continue
		}
		alts := make([]string, 0, len(d.Alternatives))
		for _, a := range d.Alternatives {
			alts = append(alts, fmt.Sprintf("'%s'", a))
		}
		items = append(items, "("+strings.Join(alts, ", ")+")")
	}
	return strings.Join(items, ", ")
}

func patchesLiteral(patches []Patch) string {
	items := make([]string, 0, len(patches))
	for _, p := range patches {
		if p.IfBuilding != "" {
			items = append(items, fmt.Sprintf("('%s', will_build('%s'))", p.File, p.IfBuilding))
		} else {
			items = append(items, fmt.Sprintf("'%s'", p.File))
		}
	}
	return strings.Join(items, ", ")
}
