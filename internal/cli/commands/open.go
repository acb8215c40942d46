package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/runner"
)

// NewOpenCommand creates the open command.
func NewOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the generated project in the system file manager",
		Args:  cobra.NoArgs,
		RunE:  runOpen,
	}
	return cmd
}

func runOpen(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	bundle := cmdCtx.Layout().BundlePath(cmdCtx.Cfg.App)

	var opener string
	switch runtime.GOOS {
	case "darwin":
		opener = "open"
	case "windows":
		opener = "explorer"
	default:
		opener = "xdg-open"
	}

	err := cmdCtx.Runner.Run(cmd.Context(), runner.Command{Path: opener, Args: []string{bundle}})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", bundle, err)
	}

	cmdCtx.Renderer.Println("Opened", bundle)
	return nil
}
