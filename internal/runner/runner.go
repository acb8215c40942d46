// Package runner executes external tools with environment control and logging.
// All toolchain invocations (python, p4a, adb, sdkmanager) go through a Runner
// so commands can be faked in tests.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command describes a single external tool invocation.
type Command struct {
	// Path is the executable name or path.
	Path string
	// Args are the arguments, not including the executable itself.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds additional environment variables merged over the process
	// environment.
	Env map[string]string
	// Stdout and Stderr receive the tool's output when set. When nil the
	// output is discarded for Run and captured for Output.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation for log lines.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner runs external commands.
type Runner interface {
	// Run executes the command, streaming output to the configured writers.
	Run(ctx context.Context, cmd Command) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner is the os/exec backed Runner used outside of tests.
type ExecRunner struct {
	Logger *slog.Logger
}

// NewExecRunner creates an ExecRunner. A nil logger discards log output.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExecRunner{Logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := r.build(ctx, cmd)
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	r.Logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Path, err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) (string, error) {
	c := r.build(ctx, cmd)

	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	r.Logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)
	if err := c.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s failed: %w", cmd.Path, err)
	}
	return buf.String(), nil
}

func (r *ExecRunner) build(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(os.Environ(), cmd.Env)
	return c
}

// mergeEnv overlays extra variables on a base environment, replacing
// duplicates instead of appending them.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}

	merged := make(map[string]string, len(base)+len(extra))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			merged[kv[:i]] = kv[i+1:]
		}
	}
	for k, v := range extra {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env
}
