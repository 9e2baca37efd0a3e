package analysis

// Reserved finding ids the driver emits itself. The statistics sink keys its
// counters on AnalyzingTargetID and InvalidTargetID.
const (
	// DriverRuleID attributes findings that belong to the run as a whole
	// rather than to any specific rule.
	DriverRuleID = "analysis-driver"

	// AnalyzingTargetID is the note logged once per valid target.
	AnalyzingTargetID = "analyzing-target"

	// InvalidTargetID is the notApplicable finding logged for a target that
	// loaded but is not a recognized analysis target.
	InvalidTargetID = "invalid-target"

	// TargetLoadFailedID is the configuration error logged for a target
	// whose loader reported a failure.
	TargetLoadFailedID = "target-load-failed"
)

// Finding is one reported observation, attributed to a rule and (usually) a
// target. Immutable once handed to a sink; never retracted.
type Finding struct {
	RuleID  string
	Kind    ResultKind
	Message string

	// Target is the resolved local path or URI of the analysis target the
	// finding refers to. Empty for run-scoped findings.
	Target string
}

// ResultLogger accepts a stream of findings. The engine's sink multiplexer
// implements it; rules only ever see this interface.
type ResultLogger interface {
	Log(f Finding) error
}
