package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"binscope/internal/analysis"
)

type Config struct {
	Targeting Targeting
	Rules     Rules
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Specifiers are the file, directory, or glob arguments naming the
	// analysis targets.
	Specifiers []string

	// Recurse descends into directories named by Specifiers (see --recurse).
	Recurse bool

	// Filter restricts enumerated files by base name, Go path.Match style
	// (see --filter).
	Filter string
}

type Rules struct {
	// Selector selects which rules to run.
	// Empty means all rules; otherwise a comma-separated id list (see --rules).
	Selector string

	// Set provides per-rule option overrides from the CLI.
	// Entries are of the form ruleID.option=value (repeatable; comma-separated
	// accepted; see --set).
	Set []string

	// Policy is a policy file path, the reserved token requesting built-in
	// defaults, or empty for no policy at all (see --policy).
	Policy string
}

type Output struct {
	// Path writes the structured interchange log to this file (see --output).
	Path string

	// Hashes embeds a content hash per analysis target in the log header
	// (see --hashes).
	Hashes bool

	// Statistics attaches the statistics sink and prints a summary at the end
	// of the run (see --statistics).
	Statistics bool

	// ConsoleFilterKinds filters console output by result kind (see
	// --console-filter-kind).
	ConsoleFilterKinds []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency controls parallelism across targets (see --concurrency).
	// 1 preserves strictly sequential analysis and is the default.
	Concurrency int

	// Verbose also emits pass, note, and notApplicable findings.
	Verbose bool

	// InvocationInfo is the reconstructed command line recorded in the
	// structured log header. Set by the CLI, not a flag.
	InvocationInfo string
}

func New() *Config {
	return &Config{
		Runtime: Runtime{
			Concurrency: 1,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.Specifiers = splitCommaList(c.Targeting.Specifiers)
	c.Rules.Set = splitCommaList(c.Rules.Set)
	c.Output.ConsoleFilterKinds = splitCommaList(c.Output.ConsoleFilterKinds)

	if c.Targeting.Filter != "" {
		if _, err := path.Match(c.Targeting.Filter, "probe"); err != nil {
			return fmt.Errorf("invalid --filter pattern %q: %w", c.Targeting.Filter, err)
		}
	}

	for _, k := range c.Output.ConsoleFilterKinds {
		if !analysis.ResultKind(k).Known() {
			return fmt.Errorf("unsupported --console-filter-kind: %s", k)
		}
	}

	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}

	// Per-rule option syntax validation (rule.option=value)
	if len(c.Rules.Set) > 0 {
		if _, err := ParseRuleOptionAssignments(c.Rules.Set); err != nil {
			return err
		}
	}

	return nil
}

// ParseRuleOptionAssignments parses values of the form "ruleID.option=value".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - This validates syntax only (no validation of rule IDs or option names).
// - Empty values are allowed ("rule.option=").
func ParseRuleOptionAssignments(values []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, raw := range splitCommaList(values) {
		left, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		left = strings.TrimSpace(left)
		value = strings.TrimSpace(value)
		ruleID, opt, ok := strings.Cut(left, ".")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		ruleID = strings.TrimSpace(ruleID)
		opt = strings.TrimSpace(opt)
		if ruleID == "" || opt == "" {
			return nil, fmt.Errorf("invalid --set entry %q: expected non-empty rule and option", raw)
		}
		if _, ok := out[ruleID]; !ok {
			out[ruleID] = make(map[string]string)
		}
		out[ruleID][opt] = value
	}
	return out, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
