package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install and launch the app on a device",
		Long: `Install the built debug APK on a connected device or emulator via adb
and launch the app's main activity.

The APK must exist; run ` + "`droidcase build`" + ` first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, device)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "adb device serial to target")

	return cmd
}

func runRun(cmd *cobra.Command, device string) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer

	if device == "" {
		device = cmdCtx.Cfg.Device
	}

	apk := cmdCtx.Layout().BinaryPath(app)
	if _, err := os.Stat(apk); err != nil {
		return fmt.Errorf("no built APK at %s\nHint: run `droidcase build` first", apk)
	}

	sdk, err := cmdCtx.SDK()
	if err != nil {
		return err
	}
	if err := sdk.VerifyADB(); err != nil {
		return err
	}

	r.Println("Installing", apk)
	if err := sdk.InstallAPK(cmd.Context(), apk, device); err != nil {
		return fmt.Errorf("failed to install APK: %w", err)
	}

	r.Println("Launching", app.Bundle+"/"+app.Activity)
	if err := sdk.LaunchApp(cmd.Context(), app.Bundle, app.Activity, device); err != nil {
		return fmt.Errorf("failed to launch app: %w", err)
	}

	r.Success(fmt.Sprintf("%s is running", app.FormalName))
	return nil
}
