// mockd-standalone - Command-line bootstrapper for the mockd mock server
package main

import (
	"os"

	"github.com/getmockd/mockd-standalone/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Main(os.Args[1:]))
}
