// Package main provides the droidcase CLI.
package main

import (
	"os"

	"github.com/droidcase-labs/droidcase/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
