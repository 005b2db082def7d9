// jbc main entrypoint
//
// This binary orchestrates the base Jenkins image pipeline: resolve
// tags, build, test-deploy locally, publish. Each command runs once
// and exits; all the heavy lifting stays internal.

package main

import (
	"os"

	"jbc/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
