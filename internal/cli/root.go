package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion    = "dev"
	buildCommit     = "unknown"
	buildDate       = "unknown"
	buildPrerelease = ""
)

var rootCmd = &cobra.Command{
	Use:   "binscope",
	Short: "Run pluggable checks against a set of target files",
	Long: `Binscope runs an extensible set of independent rule checks against a
collection of target files and writes findings to the console and to a
structured, versioned log for downstream tooling.

Binscope is resilience-oriented: one bad rule or one bad target cannot abort
the run. Failures are isolated, logged as findings, and remembered in the
run's health flags, which decide the process exit code.

Examples:
	# Show available commands and global flags
	binscope --help

	# Analyze every file under ./build and write the structured log
	binscope analyze ./build --recurse --output findings.json

	# List rules
	binscope rules list

	# Print build info
	binscope version`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Also emit pass, note, and not-applicable findings")
}

func SetBuildInfo(version, commit, date, prerelease string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
	buildPrerelease = prerelease

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
