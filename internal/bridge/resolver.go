// Package bridge selects which variant of the pyjnius Java-bridge library a
// generated project should depend on.
//
// pyjnius releases up to the 1.x line do not build against Python 3.13, so
// projects created under 3.13+ must pull the library from its development
// branch instead of PyPI. Selection is a pure function of the interpreter
// version; an already-installed pyjnius that conflicts with the selection only
// produces a warning, never a failure.
package bridge

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/droidcase-labs/droidcase/internal/python"
)

// PackageName is the Java-bridge distribution name.
const PackageName = "pyjnius"

const (
	stableConstraint = ">=1.4.1"
	developmentRef   = "git+https://github.com/kivy/pyjnius.git"

	// No released 1.x build carries the Python 3.13 JNI fixes; only versions
	// from the development line (reported as 2.x pre-releases) qualify.
	developmentConstraint = ">=2.0.0-0"
)

// DependencySpec is a declarative reference to the Java-bridge dependency,
// either as a version-constrained PyPI requirement or a source-control
// reference.
type DependencySpec struct {
	// Name is the distribution name.
	Name string
	// Constraint is a version constraint such as ">=1.4.1". Empty when the
	// spec points at a source reference instead.
	Constraint string
	// SourceRef is a pip-installable source reference such as a git URL.
	// Empty for constraint-based specs.
	SourceRef string
}

// Requirement renders the spec as a line for a requirements manifest.
func (s DependencySpec) Requirement() string {
	if s.SourceRef != "" {
		return s.SourceRef
	}
	return s.Name + s.Constraint
}

// IsDevelopment reports whether the spec points at the development branch.
func (s DependencySpec) IsDevelopment() bool {
	return s.SourceRef != ""
}

// CompatibilityReport warns that an installed Java-bridge version conflicts
// with the spec selected for the running interpreter.
type CompatibilityReport struct {
	// Interpreter is the detected Python version.
	Interpreter python.Version
	// Installed is the version string reported by the environment.
	Installed string
	// Selected is the spec chosen for this interpreter.
	Selected DependencySpec
}

// Message renders the report as a human-readable warning.
func (r CompatibilityReport) Message() string {
	return fmt.Sprintf(
		"installed %s %s is not compatible with Python %s; builds will use %s, "+
			"but your development environment may need: pip install %s",
		PackageName, r.Installed, r.Interpreter, r.Selected.Requirement(), r.Selected.Requirement(),
	)
}

// Resolve selects the Java-bridge dependency for an interpreter version.
// Interpreters at 3.13 or newer get the development branch; older ones get
// the last known-stable release line. The result is deterministic and the
// call has no side effects.
func Resolve(v python.Version) DependencySpec {
	if v.AtLeast(3, 13) {
		return DependencySpec{Name: PackageName, SourceRef: developmentRef}
	}
	return DependencySpec{Name: PackageName, Constraint: stableConstraint}
}

// Check reports whether an installed Java-bridge version conflicts with the
// spec Resolve selects for the given interpreter. It returns nil when the
// installation is compatible, when installed is empty, or when the installed
// version string cannot be parsed: an undecidable check degrades to no
// warning rather than an error.
func Check(v python.Version, installed string) *CompatibilityReport {
	if installed == "" {
		return nil
	}

	selected := Resolve(v)

	constraint := selected.Constraint
	if selected.IsDevelopment() {
		constraint = developmentConstraint
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil
	}
	ver, err := semver.NewVersion(normalizeVersion(installed))
	if err != nil {
		return nil
	}

	if c.Check(ver) {
		return nil
	}
	return &CompatibilityReport{Interpreter: v, Installed: installed, Selected: selected}
}
