package bridge

import (
	"regexp"
	"strings"
)

// Python packaging version strings (PEP 440) are close to but not quite
// semver: pre-release segments look like "1.6.1.dev0", "1.5.0rc2" or
// "1.5.0a1". normalizeVersion rewrites the common forms into semver
// pre-release syntax so they can be checked against a constraint. Strings it
// does not understand are returned unchanged and will fail semver parsing,
// which callers treat as "cannot determine compatibility".

var pep440Suffix = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})[.-]?(dev|a|alpha|b|beta|rc|post)\.?(\d*)$`)

func normalizeVersion(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "v")

	m := pep440Suffix.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	release, label, n := m[1], m[2], m[3]
	if n == "" {
		n = "0"
	}

	// Post-releases sort after the release itself; encode them as build
	// metadata so the release version is what gets compared.
	if label == "post" {
		return release + "+post." + n
	}
	return release + "-" + label + "." + n
}
