package main

import (
	"binscope/internal/cli"
	_ "binscope/internal/rules/checks"
)

// These variables are populated by the build via -ldflags.
var (
	version    = "dev"
	commit     = "unknown"
	date       = "unknown"
	prerelease = ""
)

func main() {
	cli.SetBuildInfo(version, commit, date, prerelease)
	cli.Execute()
}
