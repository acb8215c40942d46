// Package commands implements the droidcase subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/android"
	"github.com/droidcase-labs/droidcase/internal/cli/config"
	"github.com/droidcase-labs/droidcase/internal/cli/output"
	"github.com/droidcase-labs/droidcase/internal/p4a"
	"github.com/droidcase-labs/droidcase/internal/project"
	"github.com/droidcase-labs/droidcase/internal/python"
	"github.com/droidcase-labs/droidcase/internal/runner"
	"github.com/droidcase-labs/droidcase/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Runner   runner.Runner
}

// runnerFactory builds the Runner used by commands. Tests replace it with a
// fake to avoid invoking real toolchains.
var runnerFactory = func(logger *slog.Logger) runner.Runner {
	return runner.NewExecRunner(logger)
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Runner:   runnerFactory(logger),
	}
}

// getConfig returns the current configuration, falling back to environment
// variables when config loading was skipped.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return &config.Config{
		ProjectRoot:  cwd,
		BuildDir:     config.DefaultBuildDir,
		DistDir:      config.DefaultDistDir,
		StatePath:    filepath.Join(cwd, config.DefaultStateFile),
		Python:       getEnvOrDefault("DROIDCASE_PYTHON", config.DefaultPython),
		P4ABinary:    getEnvOrDefault("DROIDCASE_P4A", config.DefaultP4A),
		SDKRoot:      os.Getenv("DROIDCASE_SDK_ROOT"),
		OutputFormat: getEnvOrDefault("DROIDCASE_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Interpreter returns the configured Python interpreter.
func (c *CommandContext) Interpreter() *python.Interpreter {
	return python.NewInterpreter(c.Cfg.Python, c.Runner)
}

// Layout returns the project path layout.
func (c *CommandContext) Layout() project.Layout {
	return c.Cfg.Layout()
}

// SDK locates the Android SDK and wraps it.
func (c *CommandContext) SDK() (*android.SDK, error) {
	root, err := android.Locate(c.Cfg.SDKRoot)
	if err != nil {
		return nil, err
	}
	return android.NewSDK(root, c.Runner), nil
}

// Driver builds a toolchain driver with the SDK environment applied.
func (c *CommandContext) Driver(cmd *cobra.Command, env map[string]string) *p4a.Driver {
	driver := p4a.New(c.Cfg.P4ABinary, c.Layout(), env, c.Runner, c.Logger)
	driver.Stdout = cmd.OutOrStdout()
	driver.Stderr = cmd.ErrOrStderr()
	return driver
}

// OpenStore opens the build history store, creating its directory if needed.
func (c *CommandContext) OpenStore() (state.Store, error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, err
		}
	}
	return state.Open(c.Cfg.StatePath)
}
