// Package state records build history in a local SQLite database. Every
// command that produces or ships an artefact logs a run here so `droidcase
// history` can show what was built, when, and whether it worked.
package state

import "time"

// BuildStatus is the lifecycle state of a recorded build run.
type BuildStatus string

const (
	BuildStatusRunning   BuildStatus = "running"
	BuildStatusCompleted BuildStatus = "completed"
	BuildStatusFailed    BuildStatus = "failed"
)

// BuildRun is one recorded invocation of an artefact-producing command.
type BuildRun struct {
	// ID is a UUID assigned when the run starts.
	ID string
	// App is the app name the run operated on.
	App string
	// Command is the CLI command that triggered the run (build, package, ...).
	Command string
	// Variant is the build variant, debug or release.
	Variant string
	Status  BuildStatus
	// StartedAt and CompletedAt are UTC timestamps; CompletedAt is nil
	// while the run is in flight.
	StartedAt   time.Time
	CompletedAt *time.Time
	// Error carries the failure message for failed runs.
	Error string
	// APKPath and APKSize describe the produced artefact, when one exists.
	APKPath string
	APKSize int64
}

// Duration is the wall-clock time of a finished run, zero while running.
func (r *BuildRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Store persists build runs.
type Store interface {
	// StartBuild records a new running build and returns it with an ID
	// assigned.
	StartBuild(app, command, variant string) (*BuildRun, error)
	// FinishBuild marks a run completed or failed. apkPath and apkSize
	// may be zero for failed runs.
	FinishBuild(id string, status BuildStatus, errMsg, apkPath string, apkSize int64) error
	// ListBuilds returns the most recent runs, newest first.
	ListBuilds(limit int) ([]*BuildRun, error)
	// LatestBuild returns the newest run for an app, or nil when the app
	// has never been built.
	LatestBuild(app string) (*BuildRun, error)
	Close() error
}
