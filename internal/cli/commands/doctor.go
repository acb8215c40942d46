package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/droidcase-labs/droidcase/internal/bridge"
	"github.com/droidcase-labs/droidcase/internal/cli/output"
	"github.com/droidcase-labs/droidcase/internal/python"
)

// minPythonMajor and minPythonMinor are the oldest interpreter line the
// toolchain is known to work with. Older versions only produce a warning.
const (
	minPythonMajor = 3
	minPythonMinor = 8
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the host environment for Android builds",
		Long: `Probe the host for everything an Android build needs: a supported Python
interpreter, a compatible Java-bridge installation, the python-for-android
toolchain, the Android SDK and NDK, and adb.

Each probe reports independently; a missing tool never hides the others.`,
		Example: `  # Run all environment checks
  droidcase doctor

  # Output as JSON
  droidcase doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// EnvCheck is a single environment probe result.
type EnvCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warning", "error"
	Detail string `json:"detail,omitempty"`
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks  []EnvCheck `json:"checks"`
	Healthy bool       `json:"healthy"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	checks := probeEnvironment(cmd.Context(), cmd, cmdCtx)

	doctorOutput := &DoctorOutput{Checks: checks, Healthy: true}
	for _, c := range checks {
		if c.Status == "error" {
			doctorOutput.Healthy = false
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

// probeEnvironment runs all host probes concurrently. Probe order in the
// result is fixed regardless of completion order.
func probeEnvironment(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext) []EnvCheck {
	const (
		slotPython = iota
		slotBridge
		slotToolchain
		slotSDK
		slotNDK
		slotADB
		slotCount
	)
	checks := make([]EnvCheck, slotCount)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		checks[slotPython], checks[slotBridge] = probePython(ctx, cmdCtx)
		return nil
	})

	g.Go(func() error {
		checks[slotToolchain] = probeToolchain(ctx, cmd, cmdCtx)
		return nil
	})

	g.Go(func() error {
		checks[slotSDK], checks[slotNDK], checks[slotADB] = probeAndroid(cmdCtx)
		return nil
	})

	_ = g.Wait()
	return checks
}

// probePython checks the interpreter version and the Java-bridge selection
// in one pass, since the bridge check needs the detected version.
func probePython(ctx context.Context, cmdCtx *CommandContext) (pythonCheck, bridgeCheck EnvCheck) {
	pythonCheck = EnvCheck{Name: "python", Status: "ok"}
	bridgeCheck = EnvCheck{Name: "java bridge", Status: "ok"}

	interp := cmdCtx.Interpreter()
	v, err := interp.Detect(ctx)
	if err != nil {
		pythonCheck.Status = "error"
		pythonCheck.Detail = err.Error()
		bridgeCheck.Status = "warning"
		bridgeCheck.Detail = "skipped: no Python interpreter"
		return pythonCheck, bridgeCheck
	}

	pythonCheck.Detail = v.String()
	if v.Compare(python.Version{Major: minPythonMajor, Minor: minPythonMinor}) < 0 {
		pythonCheck.Status = "warning"
		pythonCheck.Detail = fmt.Sprintf("%s is older than the supported %d.%d line", v, minPythonMajor, minPythonMinor)
	}

	spec := bridge.Resolve(v)
	bridgeCheck.Detail = spec.Requirement()

	installed, err := interp.InstalledVersion(ctx, bridge.PackageName)
	if err != nil {
		if !errors.Is(err, python.ErrPackageNotInstalled) {
			cmdCtx.Logger.Debug("pip probe failed", "error", err)
		}
		return pythonCheck, bridgeCheck
	}
	if report := bridge.Check(v, installed); report != nil {
		bridgeCheck.Status = "warning"
		bridgeCheck.Detail = report.Message()
	}
	return pythonCheck, bridgeCheck
}

func probeToolchain(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext) EnvCheck {
	check := EnvCheck{Name: "python-for-android", Status: "ok"}

	driver := cmdCtx.Driver(cmd, nil)
	version, err := driver.Version(ctx)
	if err != nil {
		check.Status = "error"
		check.Detail = err.Error()
		return check
	}
	check.Detail = version
	return check
}

func probeAndroid(cmdCtx *CommandContext) (sdkCheck, ndkCheck, adbCheck EnvCheck) {
	sdkCheck = EnvCheck{Name: "android sdk", Status: "ok"}
	ndkCheck = EnvCheck{Name: "android ndk", Status: "ok"}
	adbCheck = EnvCheck{Name: "adb", Status: "ok"}

	sdk, err := cmdCtx.SDK()
	if err != nil {
		sdkCheck.Status = "error"
		sdkCheck.Detail = err.Error()
		ndkCheck.Status = "warning"
		ndkCheck.Detail = "skipped: no Android SDK"
		adbCheck.Status = "warning"
		adbCheck.Detail = "skipped: no Android SDK"
		return sdkCheck, ndkCheck, adbCheck
	}
	sdkCheck.Detail = sdk.Root

	ndk, err := sdk.LatestNDK()
	if err != nil {
		ndkCheck.Status = "error"
		ndkCheck.Detail = err.Error()
	} else {
		ndkCheck.Detail = ndk.Version
	}

	if err := sdk.VerifyADB(); err != nil {
		adbCheck.Status = "error"
		adbCheck.Detail = err.Error()
	} else {
		adbCheck.Detail = sdk.ADBPath()
	}
	return sdkCheck, ndkCheck, adbCheck
}

var titleCaser = cases.Title(language.English)

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	r.Header(1, "Environment Checks")
	for _, c := range out.Checks {
		status := c.Status
		if status == "ok" {
			status = "success"
		}
		r.StatusLine(titleCaser.String(c.Name), status, c.Detail)
	}

	r.Println()
	if out.Healthy {
		r.Success("Environment is ready for Android builds")
	} else {
		r.Error("Environment is not ready; fix the errors above")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Header(1, "Environment Checks")
	r.Println("| Check | Status | Detail |")
	r.Println("|-------|--------|--------|")
	for _, c := range out.Checks {
		r.Printf("| %s | %s | %s |\n", titleCaser.String(c.Name), c.Status, c.Detail)
	}
	r.Println()
	if out.Healthy {
		r.Println("Environment is ready for Android builds.")
	} else {
		r.Println("Environment is **not ready**; fix the errors above.")
	}
	return nil
}
