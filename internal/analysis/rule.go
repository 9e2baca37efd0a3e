package analysis

// Rule is a pluggable check. Rules are stateless between targets; per-run
// bookkeeping (disable sets, failure flags) is owned by the engine.
//
// Any method, including the metadata accessors, may panic: a misbehaving
// rule must not be able to crash the analysis loop, so the engine wraps
// every call site and converts panics into internalError findings.
type Rule interface {
	ID() string
	Name() string
	Description() string

	// Initialize is called exactly once per run, with the root context,
	// before any target is analyzed.
	Initialize(ctx *AnalysisContext) error

	// CanAnalyze returns the rule's applicability verdict for the context's
	// target, plus a human-readable reason for non-applicable verdicts.
	CanAnalyze(ctx *AnalysisContext) (Applicability, string, error)

	// Analyze runs the check. The rule is solely responsible for emitting
	// zero or more findings through the context's logger during this call.
	Analyze(ctx *AnalysisContext) error
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableRule interface {
	Rule
	Options() []Option
	Configure(opts map[string]string) error
}
