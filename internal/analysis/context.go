package analysis

// AnalysisContext is the per-target working record the engine threads into
// every rule invocation.
//
// Ownership: the engine exclusively owns context lifetime. A fresh context is
// built per target and discarded after that target's rule loop completes; it
// is never shared across targets or mutated concurrently. The root context
// (used for rule initialization, before any target is selected) carries only
// the logger and policy and lives for the whole run.
type AnalysisContext struct {
	// TargetURI is the resolved path of the target under analysis.
	TargetURI string

	// TargetLoadError is set when the target loader failed; the engine
	// branches on this signal only and never inspects loader internals.
	TargetLoadError error

	// TargetValid reports whether the loaded target is a recognized analysis
	// target.
	TargetValid bool

	// CurrentRule is set by the engine immediately before each rule call so
	// error handlers can attribute blame.
	CurrentRule Rule

	Logger ResultLogger
	Policy PropertyBag
}

// ForTarget derives a fresh per-target context carrying the root context's
// logger and policy.
func (c *AnalysisContext) ForTarget(uri string) *AnalysisContext {
	return &AnalysisContext{
		TargetURI: uri,
		Logger:    c.Logger,
		Policy:    c.Policy,
	}
}

// Log emits a finding through the shared logger, stamping the current rule
// and target when the caller left them blank. Rules usually call this from
// Analyze instead of building a Finding by hand.
func (c *AnalysisContext) Log(kind ResultKind, message string) error {
	f := Finding{Kind: kind, Message: message, Target: c.TargetURI}
	if c.CurrentRule != nil {
		f.RuleID = c.CurrentRule.ID()
	} else {
		f.RuleID = DriverRuleID
	}
	return c.Logger.Log(f)
}
