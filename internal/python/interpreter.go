package python

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/droidcase-labs/droidcase/internal/runner"
)

// DefaultBinary is the interpreter used when none is configured.
const DefaultBinary = "python3"

// ErrPackageNotInstalled is returned by InstalledVersion when pip reports no
// installation of the requested package.
var ErrPackageNotInstalled = errors.New("package not installed")

// Interpreter wraps a concrete Python binary on the host.
type Interpreter struct {
	Binary string

	run runner.Runner
}

// NewInterpreter creates an Interpreter for the given binary. An empty binary
// selects DefaultBinary.
func NewInterpreter(binary string, run runner.Runner) *Interpreter {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Interpreter{Binary: binary, run: run}
}

// Detect asks the interpreter for its version.
func (p *Interpreter) Detect(ctx context.Context) (Version, error) {
	out, err := p.run.Output(ctx, runner.Command{
		Path: p.Binary,
		Args: []string{"--version"},
	})
	if err != nil {
		return Version{}, fmt.Errorf("unable to run %s: %w", p.Binary, err)
	}

	v, err := ParseVersion(out)
	if err != nil {
		return Version{}, fmt.Errorf("unable to determine python version: %w", err)
	}
	return v, nil
}

// InstalledVersion queries pip for the installed version of a package.
// It returns ErrPackageNotInstalled when pip does not know the package.
func (p *Interpreter) InstalledVersion(ctx context.Context, name string) (string, error) {
	out, err := p.run.Output(ctx, runner.Command{
		Path: p.Binary,
		Args: []string{"-m", "pip", "show", name},
	})
	if err != nil {
		// pip exits non-zero when the package is absent.
		return "", ErrPackageNotInstalled
	}

	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", fmt.Errorf("no version in pip show output for %s", name)
}
