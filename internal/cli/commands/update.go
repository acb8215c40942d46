package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/project"
	"github.com/droidcase-labs/droidcase/internal/recipe"
	"github.com/droidcase-labs/droidcase/internal/scaffold"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the generated project with current app code and metadata",
		Long: `Regenerate the project metadata and copy the app's source tree into the
generated Android project. The Java-bridge dependency is re-resolved against
the current host Python version, so a project created under an older
interpreter picks up the right variant after an upgrade.`,
		Args: cobra.NoArgs,
		RunE: runUpdate,
	}
	return cmd
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer
	layout := cmdCtx.Layout()

	_, spec, report, err := resolveBridge(cmd.Context(), cmdCtx)
	if err != nil {
		return err
	}
	if report != nil {
		r.Warning(report.Message())
	}

	sctx := scaffold.Context{
		App:                app,
		Permissions:        project.BuildPermissionsContext(app),
		PyjniusRequirement: spec.Requirement(),
		UsesLocalRecipes:   spec.IsDevelopment(),
	}

	// Metadata files are regenerated; only the copied source tree carries
	// user edits, and syncSource refreshes that from the app directory.
	if _, err := scaffold.Generate(layout.BundlePath(app), sctx, true); err != nil {
		return err
	}

	if spec.IsDevelopment() {
		if _, err := recipe.WriteOverrides(layout.RecipesPath(app), []recipe.Recipe{recipe.PyjniusOverride()}); err != nil {
			return err
		}
	} else {
		// Drop a stale override left behind by a previous interpreter.
		overrideDir := filepath.Join(layout.RecipesPath(app), recipe.PyjniusOverride().Name)
		if err := os.RemoveAll(overrideDir); err != nil {
			return fmt.Errorf("failed to remove stale recipe override: %w", err)
		}
	}

	if err := syncSource(cmdCtx, app); err != nil {
		return err
	}

	r.Success(fmt.Sprintf("Updated Android project for %s", app.FormalName))
	return nil
}

// syncSource copies the app's source tree from the project root into the
// generated project. Missing source directories are not an error; the
// scaffold provides a starter main.py until the app grows its own.
func syncSource(cmdCtx *CommandContext, app *project.App) error {
	src := filepath.Join(cmdCtx.Cfg.ProjectRoot, app.SourceDir)
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		cmdCtx.Logger.Debug("no app source directory to sync", "path", src)
		return nil
	}

	dst := cmdCtx.Layout().SourcePath(app)
	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("failed to copy app source: %w", err)
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
