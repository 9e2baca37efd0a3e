package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"binscope/internal/analysis"
	"binscope/internal/config"
	"binscope/internal/output"
	"binscope/internal/rules"

	"golang.org/x/sync/errgroup"
)

// Engine drives target resolution, rule applicability negotiation, rule
// execution, and failure classification for one run. Almost any failure is
// isolated to the rule or target it occurred on; the run continues and the
// anomaly is remembered in the RuntimeConditions accumulator.
type Engine struct {
	tool output.ToolInfo

	// loader is a test seam for target loading.
	loader TargetLoader

	// resolver is a test seam for rule discovery.
	resolver func(selector string) ([]analysis.Rule, error)
}

func NewEngine(tool output.ToolInfo) *Engine {
	return &Engine{
		tool:     tool,
		loader:   defaultLoader,
		resolver: rules.Resolve,
	}
}

// disabledSet is the per-run sticky set of rule identities the engine will no
// longer invoke. Once added, an identity is never removed within a run.
type disabledSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newDisabledSet() *disabledSet {
	return &disabledSet{ids: make(map[string]struct{})}
}

func (d *disabledSet) Add(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[id] = struct{}{}
}

func (d *disabledSet) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.ids[id]
	return ok
}

// Run executes one analysis run and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) (code int) {
	conditions := &Conditions{}

	logger := output.NewManager()
	if !cfg.Output.NoConsole {
		_ = logger.AddSink(output.NewConsoleSink(nil, cfg.Runtime.Verbose, cfg.Output.ConsoleFilterKinds))
	}
	if cfg.Output.Statistics {
		_ = logger.AddSink(output.NewStatisticsSink(os.Stderr))
	}

	// Teardown flushes every sink. A sink that cannot flush means the
	// requested output artifact was never fully produced, so the failure must
	// reach the exit code; this runs after the recover below so it has the
	// last word.
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to finalize output: %v\n", err)
			conditions.Set(ExceptionWritingToLogFile)
			code = exitCodeForRun(conditions)
		}
	}()

	// Outermost boundary: a fault escaping the analysis phase is logged as an
	// internal error against a synthetic context and converted to a failure
	// exit code. The process never terminates with an unhandled fault.
	defer func() {
		if r := recover(); r != nil {
			conditions.Set(ExceptionInEngine)
			logFinding(logger, analysis.Finding{
				RuleID:  analysis.DriverRuleID,
				Kind:    analysis.KindInternalError,
				Message: fmt.Sprintf("unhandled fault escaped the analysis phase: %v", r),
			}, conditions)
			code = exitCodeForRun(conditions)
		}
	}()

	targets, err := ResolveTargets(cfg.Targeting.Specifiers, cfg.Targeting.Recurse, cfg.Targeting.Filter)
	if err != nil {
		conditions.Set(ExceptionLoadingTargetFile)
		logFinding(logger, analysis.Finding{
			RuleID:  analysis.DriverRuleID,
			Kind:    analysis.KindConfigurationError,
			Message: fmt.Sprintf("failed to resolve analysis targets: %v", err),
		}, conditions)
		return exitCodeForRun(conditions)
	}

	policy, err := loadPolicy(cfg)
	if err != nil {
		// An unreadable policy file is a run-scoped warning, not fatal; any
		// rule that requires policy disables itself through the normal
		// applicability path.
		conditions.Set(ExceptionLoadingPolicyFile)
		logFinding(logger, analysis.Finding{
			RuleID:  analysis.DriverRuleID,
			Kind:    analysis.KindConfigurationError,
			Message: fmt.Sprintf("failed to load policy: %v", err),
		}, conditions)
	}

	rootCtx := &analysis.AnalysisContext{Logger: logger, Policy: policy}

	if cfg.Output.Path != "" {
		sink, err := output.NewLogFileSink(cfg.Output.Path, cfg.Runtime.Verbose, targets,
			cfg.Output.Hashes, e.tool, cfg.Runtime.InvocationInfo)
		if err != nil {
			// A requested output artifact that cannot be produced is not a
			// recoverable condition.
			conditions.Set(ExceptionCreatingLogFile)
			logFinding(logger, analysis.Finding{
				RuleID:  analysis.DriverRuleID,
				Kind:    analysis.KindConfigurationError,
				Message: fmt.Sprintf("failed to create output log file %s: %v", cfg.Output.Path, err),
			}, conditions)
			return exitCodeForRun(conditions)
		}
		_ = logger.AddSink(sink)
	}

	selected, err := e.resolver(cfg.Rules.Selector)
	if err != nil {
		// The run cannot proceed without knowing what checks to run.
		conditions.Set(ExceptionInstantiatingRules)
		logFinding(logger, analysis.Finding{
			RuleID:  analysis.DriverRuleID,
			Kind:    analysis.KindInternalError,
			Message: fmt.Sprintf("rule discovery failed: %v", err),
		}, conditions)
		return exitCodeForRun(conditions)
	}

	if err := applyRuleOptions(cfg, selected); err != nil {
		conditions.Set(ExceptionInstantiatingRules)
		logFinding(logger, analysis.Finding{
			RuleID:  analysis.DriverRuleID,
			Kind:    analysis.KindConfigurationError,
			Message: fmt.Sprintf("failed to configure rules: %v", err),
		}, conditions)
		return exitCodeForRun(conditions)
	}

	active := initializeRules(rootCtx, selected, conditions)
	disabled := newDisabledSet()

	e.processTargets(ctx, cfg, rootCtx, targets, active, disabled, conditions)

	return exitCodeForRun(conditions)
}

// logFinding routes one driver-emitted finding through the multiplexer. A
// sink that can no longer accept writes means the requested output artifact
// is broken, which must not go unrecorded.
func logFinding(logger analysis.ResultLogger, f analysis.Finding, conditions *Conditions) {
	if err := logger.Log(f); err != nil {
		conditions.Set(ExceptionWritingToLogFile)
	}
}

// initializeRules calls every rule's Initialize hook exactly once, with the
// root context. A rule that fails here is flagged and permanently removed
// from the working set; initialization continues for the remaining rules.
func initializeRules(rootCtx *analysis.AnalysisContext, selected []analysis.Rule, conditions *Conditions) []analysis.Rule {
	active := make([]analysis.Rule, 0, len(selected))
	for _, r := range selected {
		rootCtx.CurrentRule = r
		err := invoke(func() error { return r.Initialize(rootCtx) })
		rootCtx.CurrentRule = nil
		if err != nil {
			id, _ := ruleIdentity(r)
			conditions.Set(ExceptionInRuleInitialize)
			logFinding(rootCtx.Logger, analysis.Finding{
				RuleID:  id,
				Kind:    analysis.KindInternalError,
				Message: fmt.Sprintf("rule '%s' failed initialization and was removed from the run: %v", id, err),
			}, conditions)
			continue
		}
		active = append(active, r)
	}
	return active
}

// processTargets walks the resolved target set. With concurrency 1 (the
// default) targets are processed strictly sequentially in target-set order.
// Higher concurrency runs independent targets in parallel; rules within one
// target stay sequential, and the disabled set and condition accumulator are
// synchronized.
func (e *Engine) processTargets(ctx context.Context, cfg *config.Config, rootCtx *analysis.AnalysisContext, targets []string, active []analysis.Rule, disabled *disabledSet, conditions *Conditions) {
	g := new(errgroup.Group)
	g.SetLimit(cfg.Runtime.Concurrency)
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		target := target
		g.Go(func() error {
			e.processTarget(rootCtx, target, active, disabled, conditions)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) processTarget(rootCtx *analysis.AnalysisContext, target string, active []analysis.Rule, disabled *disabledSet, conditions *Conditions) {
	tc := rootCtx.ForTarget(target)
	e.loader(tc)

	if tc.TargetLoadError != nil {
		conditions.Set(ExceptionLoadingTargetFile)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  analysis.TargetLoadFailedID,
			Kind:    analysis.KindConfigurationError,
			Target:  target,
			Message: fmt.Sprintf("could not load '%s' for analysis: %v", target, tc.TargetLoadError),
		}, conditions)
		return
	}

	if !tc.TargetValid {
		conditions.Set(OneOrMoreTargetsInvalid)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  analysis.InvalidTargetID,
			Kind:    analysis.KindNotApplicable,
			Target:  target,
			Message: fmt.Sprintf("'%s' is not a recognized analysis target", target),
		}, conditions)
		return
	}

	logFinding(tc.Logger, analysis.Finding{
		RuleID:  analysis.AnalyzingTargetID,
		Kind:    analysis.KindNote,
		Target:  target,
		Message: fmt.Sprintf("Analyzing '%s'...", target),
	}, conditions)

	for _, r := range active {
		runRule(tc, r, disabled, conditions)
	}
}

// runRule negotiates applicability with one rule and, when applicable,
// invokes its analysis entry point. Any failure, including a panic reading
// the rule's own metadata, disables the rule for the remainder of the run;
// the target loop continues with the next rule.
func runRule(tc *analysis.AnalysisContext, r analysis.Rule, disabled *disabledSet, conditions *Conditions) {
	id, idErr := ruleIdentity(r)
	if disabled.Has(id) {
		return
	}
	if idErr != nil {
		conditions.Set(ExceptionInRuleCanAnalyze)
		disabled.Add(id)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  id,
			Kind:    analysis.KindInternalError,
			Target:  tc.TargetURI,
			Message: fmt.Sprintf("rule metadata access failed; rule disabled for the remainder of the run: %v", idErr),
		}, conditions)
		return
	}

	tc.CurrentRule = r

	var verdict analysis.Applicability
	var reason string
	err := invoke(func() error {
		v, rsn, cerr := r.CanAnalyze(tc)
		verdict, reason = v, rsn
		return cerr
	})
	if err != nil {
		conditions.Set(ExceptionInRuleCanAnalyze)
		disabled.Add(id)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  id,
			Kind:    analysis.KindInternalError,
			Target:  tc.TargetURI,
			Message: fmt.Sprintf("applicability check for rule '%s' failed; rule disabled for the remainder of the run: %v", id, err),
		}, conditions)
		return
	}

	switch verdict {
	case analysis.NotApplicableToTarget:
		if reason == "" {
			reason = "the rule does not apply to this target"
		}
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  id,
			Kind:    analysis.KindNotApplicable,
			Target:  tc.TargetURI,
			Message: fmt.Sprintf("'%s' was not evaluated by rule '%s': %s", tc.TargetURI, id, reason),
		}, conditions)

	case analysis.NotApplicableWithoutPolicy:
		if reason == "" {
			reason = "required policy is absent"
		}
		conditions.Set(RuleMissingRequiredPolicy)
		disabled.Add(id)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  id,
			Kind:    analysis.KindConfigurationError,
			Target:  tc.TargetURI,
			Message: fmt.Sprintf("rule '%s' cannot run without policy and was disabled for the remainder of the run: %s", id, reason),
		}, conditions)

	case analysis.ApplicableToTarget:
		if aerr := invoke(func() error { return r.Analyze(tc) }); aerr != nil {
			conditions.Set(ExceptionInRuleAnalyze)
			disabled.Add(id)
			logFinding(tc.Logger, analysis.Finding{
				RuleID:  id,
				Kind:    analysis.KindInternalError,
				Target:  tc.TargetURI,
				Message: fmt.Sprintf("analysis by rule '%s' failed; rule disabled for the remainder of the run: %v", id, aerr),
			}, conditions)
		}

	default:
		conditions.Set(ExceptionInRuleCanAnalyze)
		disabled.Add(id)
		logFinding(tc.Logger, analysis.Finding{
			RuleID:  id,
			Kind:    analysis.KindInternalError,
			Target:  tc.TargetURI,
			Message: fmt.Sprintf("rule '%s' returned an unrecognized applicability verdict %q and was disabled", id, verdict),
		}, conditions)
	}
}

func loadPolicy(cfg *config.Config) (analysis.PropertyBag, error) {
	switch cfg.Rules.Policy {
	case "":
		return nil, nil
	case analysis.DefaultPolicyToken:
		return analysis.DefaultPolicy(), nil
	default:
		return analysis.LoadPolicy(cfg.Rules.Policy)
	}
}

// applyRuleOptions routes --set overrides, parsed as "ruleID.option=value",
// to the matching rule's Configure method. Only rules implementing
// analysis.ConfigurableRule accept options. A rule whose metadata accessor
// fails is left out of the addressable set; it gets disabled through the
// normal per-rule path once the target loop reaches it.
func applyRuleOptions(cfg *config.Config, selected []analysis.Rule) error {
	if len(cfg.Rules.Set) == 0 {
		return nil
	}

	assignments, err := config.ParseRuleOptionAssignments(cfg.Rules.Set)
	if err != nil {
		return err
	}

	byID := make(map[string]analysis.Rule, len(selected))
	for _, r := range selected {
		id, idErr := ruleIdentity(r)
		if idErr != nil {
			continue
		}
		byID[id] = r
	}

	for ruleID, opts := range assignments {
		r, ok := byID[ruleID]
		if !ok {
			return fmt.Errorf("unknown rule ID %q", ruleID)
		}
		cr, ok := r.(analysis.ConfigurableRule)
		if !ok {
			return fmt.Errorf("rule %q does not support options", ruleID)
		}

		allowed := make(map[string]struct{})
		for _, opt := range cr.Options() {
			allowed[opt.Name] = struct{}{}
		}
		for name := range opts {
			if _, ok := allowed[name]; !ok {
				return fmt.Errorf("unknown option %q for rule %q", name, ruleID)
			}
		}

		if err := cr.Configure(opts); err != nil {
			return fmt.Errorf("configure rule %q: %w", ruleID, err)
		}
	}

	return nil
}
