package config

import (
	"fmt"
	"os"
)

// Validate checks that the basic configuration is usable. App validation
// happens separately so help and init commands work without a project.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root could not be determined")
	}
	return nil
}

// RequireApp returns an error when no app is configured. Commands that
// operate on a project call this before doing any work.
func (c *Config) RequireApp() error {
	if c.App == nil {
		return fmt.Errorf("no app configured: add an [app] section to %s or run `droidcase init`",
			configFileNames[0])
	}
	return nil
}

// ValidateProject checks that the configured project exists on disk.
func (c *Config) ValidateProject() error {
	if err := c.RequireApp(); err != nil {
		return err
	}
	bundle := c.Layout().BundlePath(c.App)
	if _, err := os.Stat(bundle); os.IsNotExist(err) {
		return fmt.Errorf("project has not been generated yet: %s does not exist\nHint: run `droidcase create` first", bundle)
	}
	return nil
}
