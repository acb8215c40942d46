package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/bridge"
	"github.com/droidcase-labs/droidcase/internal/project"
	"github.com/droidcase-labs/droidcase/internal/python"
	"github.com/droidcase-labs/droidcase/internal/recipe"
	"github.com/droidcase-labs/droidcase/internal/scaffold"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate the Android project for the app",
		Long: `Generate the templated Android project the build pipeline runs in.

The Java-bridge dependency is selected based on the host Python version:
interpreters at 3.13 or newer use the pyjnius development branch, older
ones use the stable release line. A local build recipe override is written
alongside the project when the development branch is in use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files in an existing project")

	return cmd
}

func runCreate(cmd *cobra.Command, force bool) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.RequireApp(); err != nil {
		return err
	}

	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer
	layout := cmdCtx.Layout()

	pyVersion, spec, report, err := resolveBridge(cmd.Context(), cmdCtx)
	if err != nil {
		return err
	}
	if report != nil {
		r.Warning(report.Message())
	}

	bundle := layout.BundlePath(app)
	if err := os.MkdirAll(bundle, 0o750); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	sctx := scaffold.Context{
		App:                app,
		Permissions:        project.BuildPermissionsContext(app),
		PyjniusRequirement: spec.Requirement(),
		UsesLocalRecipes:   spec.IsDevelopment(),
	}

	written, err := scaffold.Generate(bundle, sctx, force)
	if err != nil {
		return err
	}
	for _, f := range written {
		r.StatusLine(f, "success", "")
	}

	if spec.IsDevelopment() {
		paths, err := recipe.WriteOverrides(layout.RecipesPath(app), []recipe.Recipe{recipe.PyjniusOverride()})
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("wrote local recipe overrides", "paths", paths)
		r.Muted(fmt.Sprintf("Using %s development branch for Python %s", bridge.PackageName, pyVersion))
	}

	if err := syncSource(cmdCtx, app); err != nil {
		return err
	}

	r.Success(fmt.Sprintf("Created Android project for %s in %s", app.FormalName, bundle))
	return nil
}

// resolveBridge detects the host interpreter, selects the Java-bridge
// dependency for it, and checks the installed version for conflicts.
func resolveBridge(ctx context.Context, cmdCtx *CommandContext) (python.Version, bridge.DependencySpec, *bridge.CompatibilityReport, error) {
	interp := cmdCtx.Interpreter()

	v, err := interp.Detect(ctx)
	if err != nil {
		return python.Version{}, bridge.DependencySpec{}, nil, err
	}

	spec := bridge.Resolve(v)
	cmdCtx.Logger.Debug("resolved Java-bridge dependency",
		"python", v.String(), "requirement", spec.Requirement())

	installed, err := interp.InstalledVersion(ctx, bridge.PackageName)
	if err != nil {
		if errors.Is(err, python.ErrPackageNotInstalled) {
			if spec.IsDevelopment() {
				cmdCtx.Renderer.Muted(fmt.Sprintf("%s is not installed; the build will install it automatically", bridge.PackageName))
			}
		} else {
			cmdCtx.Logger.Debug("could not determine installed version",
				"package", bridge.PackageName, "error", err)
		}
		return v, spec, nil, nil
	}

	report := bridge.Check(v, installed)
	if report == nil && spec.IsDevelopment() {
		cmdCtx.Renderer.Muted(fmt.Sprintf("Found %s %s, compatible with Python %s", bridge.PackageName, installed, v))
	}
	return v, spec, report, nil
}
