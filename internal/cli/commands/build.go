package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/p4a"
	"github.com/droidcase-labs/droidcase/internal/project"
	"github.com/droidcase-labs/droidcase/internal/state"
)

// watchDebounce coalesces bursts of filesystem events into one rebuild.
const watchDebounce = 100 * time.Millisecond

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a debug APK",
		Long: `Compile the generated Android project into a debug APK.

With --watch, the app source directory is monitored and the APK is rebuilt
whenever a file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild when app source files change")

	return cmd
}

func runBuild(cmd *cobra.Command, watch bool) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateProject(); err != nil {
		return err
	}

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	driver, err := buildDriver(cmd, cmdCtx)
	if err != nil {
		return err
	}

	if err := buildOnce(cmd.Context(), cmdCtx, driver, store, "build", false); err != nil {
		return err
	}

	if watch {
		return watchAndRebuild(cmd.Context(), cmdCtx, driver, store)
	}
	return nil
}

// buildDriver locates the Android SDK and NDK and wires a toolchain driver
// with their environment.
func buildDriver(cmd *cobra.Command, cmdCtx *CommandContext) (*p4a.Driver, error) {
	sdk, err := cmdCtx.SDK()
	if err != nil {
		return nil, err
	}

	ndk, err := sdk.LatestNDK()
	if err != nil {
		return nil, err
	}
	cmdCtx.Logger.Debug("using NDK", "version", ndk.Version, "path", ndk.Path)

	return cmdCtx.Driver(cmd, sdk.Env(ndk.Path)), nil
}

// buildOnce runs one APK build and records it in the history store.
func buildOnce(ctx context.Context, cmdCtx *CommandContext, driver *p4a.Driver, store state.Store, command string, release bool) error {
	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer
	layout := cmdCtx.Layout()

	variant := "debug"
	if release {
		variant = "release"
	}

	run, err := store.StartBuild(app.Name, command, variant)
	if err != nil {
		return err
	}

	opts := p4a.BuildOptions{
		Release:     release,
		Permissions: project.BuildPermissionsContext(app).GrantedPermissions(),
	}
	if recipes := layout.RecipesPath(app); dirExists(recipes) {
		opts.LocalRecipes = recipes
	}

	apk, err := driver.BuildAPK(ctx, app, opts)
	if err != nil {
		_ = store.FinishBuild(run.ID, state.BuildStatusFailed, err.Error(), "", 0)
		return err
	}

	var size int64
	if info, statErr := os.Stat(apk); statErr == nil {
		size = info.Size()
	}
	if err := store.FinishBuild(run.ID, state.BuildStatusCompleted, "", apk, size); err != nil {
		return err
	}

	r.Success(fmt.Sprintf("Built %s", apk))
	return nil
}

// watchAndRebuild monitors the app source directory and rebuilds on change.
func watchAndRebuild(ctx context.Context, cmdCtx *CommandContext, driver *p4a.Driver, store state.Store) error {
	app := cmdCtx.Cfg.App
	r := cmdCtx.Renderer

	srcDir := filepath.Join(cmdCtx.Cfg.ProjectRoot, app.SourceDir)
	if !dirExists(srcDir) {
		return fmt.Errorf("cannot watch %s: directory does not exist", srcDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, srcDir); err != nil {
		return err
	}

	r.Println("Watching", srcDir, "for changes. Press Ctrl+C to stop.")

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch.
			if event.Op&fsnotify.Create != 0 && dirExists(event.Name) {
				_ = addWatchRecursive(watcher, event.Name)
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)

		case <-rebuild:
			if err := syncSource(cmdCtx, app); err != nil {
				r.Error(err.Error())
				continue
			}
			if err := buildOnce(ctx, cmdCtx, driver, store, "build", false); err != nil {
				r.Error(err.Error())
			}
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
