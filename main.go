// Command dirinfo reports file counts and sizes for a directory tree.
package main

import (
	"github.com/charmbracelet/log"

	"github.com/idelchi/dirinfo/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Set by the linker
var version = "unknown - unofficial build"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		log.Fatal("dirinfo failed", "err", err)
	}
}
