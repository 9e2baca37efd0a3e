package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Targeting
	FlagRecurse = "recurse"
	FlagFilter  = "filter"

	// Rules
	FlagRules  = "rules"
	FlagSet    = "set"
	FlagPolicy = "policy"

	// Output
	FlagOutput            = "output"
	FlagHashes            = "hashes"
	FlagStatistics        = "statistics"
	FlagConsoleFilterKind = "console-filter-kind"
	FlagNoConsole         = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
)
