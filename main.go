// fyi prints status messages for shell scripts and demonstrates a
// thread-safe progress bar for concurrent work
package main

import (
	"os"

	"github.com/andpalmier/fyi/cmd"
)

// Version information (set at build time via -ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cmd.Execute(version, commit, date))
}
