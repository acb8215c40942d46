package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/project"
)

// NewPackageCommand creates the package command.
func NewPackageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build a distributable artefact",
		Long: `Build the app in its configured packaging format and place the artefact
in the distribution directory. The debug-apk format repackages the debug
build; the apk format runs a release build.`,
		Args: cobra.NoArgs,
		RunE: runPackage,
	}
	return cmd
}

func runPackage(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	driver, err := buildDriver(cmd, cmdCtx)
	if err != nil {
		return err
	}

	release := app.PackagingFormat == project.FormatAPK
	if err := buildOnce(cmd.Context(), cmdCtx, driver, store, "package", release); err != nil {
		return err
	}

	dist, err := copyToDist(cmdCtx)
	if err != nil {
		return err
	}

	r.Success(fmt.Sprintf("Packaged %s as %s", app.FormalName, dist))
	return nil
}

// copyToDist copies the built binary to its distribution path.
func copyToDist(cmdCtx *CommandContext) (string, error) {
	app := cmdCtx.Cfg.App
	layout := cmdCtx.Layout()

	binary := layout.BinaryPath(app)
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("no built APK at %s\nHint: run `droidcase build` first", binary)
	}

	dist, err := layout.DistributionPath(app)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dist), 0o750); err != nil {
		return "", fmt.Errorf("failed to create distribution directory: %w", err)
	}

	if err := copyFile(binary, dist); err != nil {
		return "", fmt.Errorf("failed to copy artefact: %w", err)
	}
	return dist, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
