// Package scaffold generates the templated Android project a build runs in.
// Templates are embedded in the binary; files ending in .tmpl are rendered
// with the app context, everything else is copied verbatim.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/droidcase-labs/droidcase/internal/project"
)

//go:embed all:templates
var templateFS embed.FS

// Context carries everything the project templates can reference.
type Context struct {
	App         *project.App
	Permissions project.PermissionsContext
	// PyjniusRequirement is the resolved Java-bridge requirement line for
	// the host interpreter.
	PyjniusRequirement string
	// UsesLocalRecipes is set when a local recipe override directory will be
	// written next to the generated project.
	UsesLocalRecipes bool
}

// SortedPermissions returns granted permissions in stable order for
// rendering.
func (c Context) SortedPermissions() []string {
	return c.Permissions.GrantedPermissions()
}

// RequirementLines returns the full requirements manifest: the Java-bridge
// line first, then the app's own requirements.
func (c Context) RequirementLines() []string {
	lines := []string{c.PyjniusRequirement}
	lines = append(lines, c.App.Requirements...)
	return lines
}

// SortedFeatures returns feature names with their required flag in stable
// order.
func (c Context) SortedFeatures() []Feature {
	names := make([]string, 0, len(c.Permissions.Features))
	for name := range c.Permissions.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	features := make([]Feature, 0, len(names))
	for _, name := range names {
		features = append(features, Feature{Name: name, Required: c.Permissions.Features[name]})
	}
	return features
}

// Feature pairs a hardware feature name with its required flag.
type Feature struct {
	Name     string
	Required bool
}

// Generate writes the project template into targetDir. Existing files are
// left alone unless force is set, so user edits survive an update. The list
// of files written (relative to targetDir) is returned.
func Generate(targetDir string, ctx Context, force bool) ([]string, error) {
	const root = "templates/project"

	var written []string
	err := fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		targetRel := renameSpecialFiles(strings.TrimSuffix(relPath, ".tmpl"))
		targetPath := filepath.Join(targetDir, targetRel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0o750)
		}

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil
			}
		}

		content, err := templateFS.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.HasSuffix(relPath, ".tmpl") {
			rendered, err := render(relPath, string(content), ctx)
			if err != nil {
				return err
			}
			content = rendered
		}

		if err := os.WriteFile(targetPath, content, 0o600); err != nil {
			return err
		}
		written = append(written, targetRel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate project template: %w", err)
	}

	return written, nil
}

func render(name, text string, ctx Context) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return []byte(buf.String()), nil
}

// renameSpecialFiles maps template names that cannot be stored as dotfiles.
func renameSpecialFiles(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	switch base {
	case "gitignore":
		return filepath.Join(dir, ".gitignore")
	default:
		return path
	}
}
