package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Name    string
	Formal  string
	Bundle  string
	Version string
	Force   bool
}

var initNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new droidcase project",
		Long: `Create a droidcase.yaml and a starter source tree in the given directory
(default: the current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "App name (lowercase identifier)")
	cmd.Flags().StringVar(&opts.Formal, "formal-name", "", "Human-readable app name")
	cmd.Flags().StringVar(&opts.Bundle, "bundle", "com.example", "Reverse-DNS bundle identifier")
	cmd.Flags().StringVar(&opts.Version, "version", "0.0.1", "Initial app version")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		opts.Name = strings.ToLower(strings.ReplaceAll(filepath.Base(abs), "-", "_"))
	}
	if !initNameRe.MatchString(opts.Name) {
		return fmt.Errorf("app name %q must be a lowercase identifier; pass one with --name", opts.Name)
	}
	if opts.Formal == "" {
		opts.Formal = strings.Title(opts.Name) //nolint:staticcheck // single-word app names only
	}

	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o750); err != nil {
		return err
	}

	data := struct {
		Name, FormalName, Bundle, Version string
	}{opts.Name, opts.Formal, opts.Bundle, opts.Version}

	files := map[string]string{
		"droidcase.yaml.tmpl": "droidcase.yaml",
		"main.py.tmpl":        filepath.Join("src", "main.py"),
	}
	for tmplName, target := range files {
		path := filepath.Join(dir, target)
		if !opts.Force {
			if _, err := os.Stat(path); err == nil {
				r.StatusLine(target, "warning", "already exists, skipped")
				continue
			}
		}

		content, err := renderTemplate(tmplName, data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}
		r.StatusLine(target, "success", "")
	}

	r.Println()
	r.Success(fmt.Sprintf("Project %s initialized!", opts.Name))
	r.Println()
	r.Println("Next steps:")
	r.Println("  1. Edit droidcase.yaml to describe your app")
	r.Println("  2. Run `droidcase create` to generate the Android project")
	r.Println("  3. Run `droidcase build` to produce an APK")
	return nil
}
