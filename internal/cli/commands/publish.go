package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy the built artefact to the distribution directory",
		Long: `Copy the most recently built APK into the distribution directory under
its versioned distribution name, without rebuilding.`,
		Args: cobra.NoArgs,
		RunE: runPublish,
	}
	return cmd
}

func runPublish(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	dist, err := copyToDist(cmdCtx)
	if err != nil {
		return err
	}

	cmdCtx.Renderer.Success(fmt.Sprintf("Published %s", dist))
	return nil
}
