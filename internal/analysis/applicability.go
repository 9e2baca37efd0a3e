package analysis

// Applicability is a rule's verdict on whether it should run against one target.
type Applicability string

const (
	ApplicabilityUnknown Applicability = ""

	// NotApplicableToTarget means the rule does not apply to this particular
	// target; the engine logs a notApplicable finding and moves on.
	NotApplicableToTarget Applicability = "not-applicable-to-target"

	// NotApplicableWithoutPolicy means the rule cannot run against any target
	// unless required policy is supplied; the engine logs a configuration
	// error and disables the rule for the remainder of the run.
	NotApplicableWithoutPolicy Applicability = "not-applicable-without-policy"

	// ApplicableToTarget means the rule should analyze this target.
	ApplicableToTarget Applicability = "applicable-to-target"
)
