package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"binscope/internal/analysis"
	"binscope/internal/config"
	"binscope/internal/engine"
	"binscope/internal/flags"
	"binscope/internal/output"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var analyzeCmd = &cobra.Command{
	Use:   "analyze [targets...]",
	Short: "Analyze a set of target files with the registered rules",
	Long: `Analyze a set of target files and report findings.

Targets may be named as files, directories, or glob patterns; directories are
descended when --recurse is set. The resolved target set is deduplicated
case-insensitively across all specifiers.

Rules:
	All registered rules run by default. --rules selects a comma-separated
	subset by id; --set ruleID.option=value configures individual rules.
	Rules that require policy are enabled through --policy, which takes a
	YAML file path or the reserved token "default" for built-in defaults.

Output:
	Findings go to the console unless --no-console is set. --output writes
	the structured interchange log; --hashes embeds a sha256 content hash
	per target in its header. --statistics prints target counters and the
	elapsed time at the end of the run. Pass, note, and not-applicable
	findings appear only with --verbose.

Exit codes:
	0 = clean run
	1 = a fatal runtime condition was recorded during analysis
	2 = the output log file could not be created
	3 = fatal driver error (rule discovery failed, or an unhandled fault)

Examples:
	# Analyze a build tree and keep the structured log
	binscope analyze ./build --recurse --output findings.json --hashes

	# One rule, with an option override, machine output only
	binscope analyze ./dist/*.so --rules file-size-limit \
		--set file-size-limit.max_bytes=1048576 --no-console --output out.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		cfg.Targeting.Specifiers = append(cfg.Targeting.Specifiers, args...)
		cfg.Runtime.InvocationInfo = strings.Join(os.Args, " ")

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		eng := engine.NewEngine(toolInfo())
		os.Exit(eng.Run(context.Background(), cfg))
	},
}

func toolInfo() output.ToolInfo {
	full := "binscope " + buildVersion
	if buildPrerelease != "" {
		full += "-" + buildPrerelease
	}
	return output.ToolInfo{
		Name:     "binscope",
		Version:  buildVersion,
		FullName: full,
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Targeting
	analyzeCmd.Flags().BoolVar(&cfg.Targeting.Recurse, flags.FlagRecurse, false, "Descend into directories named as targets")
	analyzeCmd.Flags().StringVar(&cfg.Targeting.Filter, flags.FlagFilter, "", "Restrict enumerated files by base name (Go path.Match style)")

	// Rules
	analyzeCmd.Flags().StringVar(&cfg.Rules.Selector, flags.FlagRules, "", "Comma-separated rule ids to run (empty = all rules)")
	analyzeCmd.Flags().StringSliceVar(&cfg.Rules.Set, flags.FlagSet, nil, "Per-rule options as ruleID.option=value (repeatable; comma-separated accepted)")
	analyzeCmd.Flags().StringVar(&cfg.Rules.Policy, flags.FlagPolicy, "", "Policy file path, or \""+analysis.DefaultPolicyToken+"\" for built-in defaults")

	// Output
	analyzeCmd.Flags().StringVarP(&cfg.Output.Path, flags.FlagOutput, "o", "", "Write the structured log to this path")
	analyzeCmd.Flags().BoolVar(&cfg.Output.Hashes, flags.FlagHashes, false, "Embed a sha256 content hash per target in the structured log header")
	analyzeCmd.Flags().BoolVar(&cfg.Output.Statistics, flags.FlagStatistics, false, "Print target counters and elapsed time at the end of the run")
	analyzeCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterKinds, flags.FlagConsoleFilterKind, nil, "Filter console output by result kind (pass, note, warning, error, notApplicable, configError, internalError). Comma-separated.")
	analyzeCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --output)")

	// Runtime
	analyzeCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 1, "Concurrent targets (1 = strictly sequential)")
}
