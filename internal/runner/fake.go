package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is an in-memory Runner for tests. Responses are keyed by a substring
// of the rendered command line; the first matching entry wins.
type Fake struct {
	mu        sync.Mutex
	responses []fakeResponse
	// Calls records every command the fake received, in order.
	Calls []Command
}

type fakeResponse struct {
	match  string
	output string
	err    error
}

// Respond registers output (and an optional error) for commands whose
// rendered form contains match.
func (f *Fake) Respond(match, output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, output: output, err: err})
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, cmd Command) error {
	out, err := f.Output(ctx, cmd)
	if cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write([]byte(out))
	}
	return err
}

// Output implements Runner.
func (f *Fake) Output(_ context.Context, cmd Command) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, cmd)
	line := cmd.String()
	for _, r := range f.responses {
		if strings.Contains(line, r.match) {
			return r.output, r.err
		}
	}
	return "", fmt.Errorf("fake runner: no response for %q", line)
}

// CommandLines returns the rendered form of every recorded call.
func (f *Fake) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}
