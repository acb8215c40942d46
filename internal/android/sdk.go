// Package android locates the Android SDK and NDK on the host and wraps the
// platform tools the build pipeline needs.
package android

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/droidcase-labs/droidcase/internal/runner"
)

// SDK wraps an Android SDK installation.
type SDK struct {
	// Root is the SDK installation directory.
	Root string

	run runner.Runner
}

// Locate resolves the SDK root. A configured path wins; otherwise the
// ANDROID_HOME and ANDROID_SDK_ROOT environment variables are consulted.
func Locate(configured string) (string, error) {
	candidates := []string{configured, os.Getenv("ANDROID_HOME"), os.Getenv("ANDROID_SDK_ROOT")}
	for _, root := range candidates {
		if root == "" {
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			return "", fmt.Errorf("android SDK root %s does not exist", root)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("android SDK root %s is not a directory", root)
		}
		return root, nil
	}
	return "", fmt.Errorf("no Android SDK found; set sdk_root in droidcase.yaml or export ANDROID_HOME")
}

// NewSDK creates an SDK wrapper rooted at the given directory.
func NewSDK(root string, run runner.Runner) *SDK {
	return &SDK{Root: root, run: run}
}

// ADBPath returns the path to the adb platform tool.
func (s *SDK) ADBPath() string {
	return filepath.Join(s.Root, "platform-tools", exeName("adb"))
}

// SDKManagerPath returns the path to the sdkmanager command line tool.
func (s *SDK) SDKManagerPath() string {
	name := "sdkmanager"
	if runtime.GOOS == "windows" {
		name = "sdkmanager.bat"
	}
	return filepath.Join(s.Root, "cmdline-tools", "latest", "bin", name)
}

// Env returns the environment variables the python-for-android toolchain
// expects. ndkPath may be empty when no NDK has been resolved yet.
func (s *SDK) Env(ndkPath string) map[string]string {
	env := map[string]string{
		"ANDROID_HOME":     s.Root,
		"ANDROID_SDK_ROOT": s.Root,
		"ANDROIDSDK":       s.Root,
	}
	if ndkPath != "" {
		env["ANDROIDNDK"] = ndkPath
		env["ANDROID_NDK_HOME"] = ndkPath
	}
	return env
}

// VerifyADB checks that the adb binary is present.
func (s *SDK) VerifyADB() error {
	if _, err := os.Stat(s.ADBPath()); err != nil {
		return fmt.Errorf("adb not found at %s; install the Android platform-tools package", s.ADBPath())
	}
	return nil
}

// InstallAPK installs an APK on a device via adb. An empty device targets the
// default (only) connected device.
func (s *SDK) InstallAPK(ctx context.Context, apkPath, device string) error {
	args := deviceArgs(device)
	args = append(args, "install", "-r", apkPath)
	return s.run.Run(ctx, runner.Command{Path: s.ADBPath(), Args: args, Stdout: os.Stdout, Stderr: os.Stderr})
}

// LaunchApp starts an activity on a device via adb.
func (s *SDK) LaunchApp(ctx context.Context, bundle, activity, device string) error {
	args := deviceArgs(device)
	args = append(args, "shell", "am", "start", "-n", bundle+"/"+activity)
	return s.run.Run(ctx, runner.Command{Path: s.ADBPath(), Args: args, Stdout: os.Stdout, Stderr: os.Stderr})
}

func deviceArgs(device string) []string {
	if device == "" {
		return nil
	}
	return []string{"-s", device}
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
