package android

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// DefaultNDKVersion is the NDK release suggested in installation guidance.
// python-for-android is known to work with this side-by-side version.
const DefaultNDKVersion = "25.2.9519653"

// NDK describes an installed NDK version.
type NDK struct {
	Version string
	Path    string
}

// NDKRoot returns the directory holding side-by-side NDK installations.
func (s *SDK) NDKRoot() string {
	return filepath.Join(s.Root, "ndk")
}

// LatestNDK finds the newest NDK installed under the SDK. Version directories
// that do not parse as versions are ignored.
func (s *SDK) LatestNDK() (NDK, error) {
	ndkRoot := s.NDKRoot()

	entries, err := os.ReadDir(ndkRoot)
	if err != nil {
		return NDK{}, fmt.Errorf(
			"no Android NDK found in %s; install one with %q or through the "+
				"Android Studio SDK Manager (SDK Tools > NDK (Side by side))",
			ndkRoot, fmt.Sprintf("%s \"ndk;%s\"", s.SDKManagerPath(), DefaultNDKVersion),
		)
	}

	var versions []*semver.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.NewVersion(e.Name())
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}

	if len(versions) == 0 {
		return NDK{}, fmt.Errorf(
			"%s exists but contains no NDK installations; install one with %q",
			ndkRoot, fmt.Sprintf("%s \"ndk;%s\"", s.SDKManagerPath(), DefaultNDKVersion),
		)
	}

	sort.Sort(semver.Collection(versions))
	latest := versions[len(versions)-1].Original()

	return NDK{
		Version: latest,
		Path:    filepath.Join(ndkRoot, latest),
	}, nil
}
