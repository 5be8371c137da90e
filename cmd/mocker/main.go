// mocker - mock HTTP APIs from a declarative route file.
package main

import "github.com/welschmorgan/mocker/pkg/cli"

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.SetBuildInfo(Version, Commit, BuildDate)
	cli.Execute()
}
