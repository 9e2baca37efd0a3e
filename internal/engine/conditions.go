package engine

import "sync/atomic"

// RuntimeConditions is a bit-flag record of anomalies observed during a run.
type RuntimeConditions uint32

const (
	ExceptionCreatingLogFile RuntimeConditions = 1 << iota
	ExceptionWritingToLogFile
	ExceptionInstantiatingRules
	ExceptionInRuleInitialize
	ExceptionInRuleCanAnalyze
	ExceptionInRuleAnalyze
	ExceptionLoadingTargetFile
	ExceptionLoadingPolicyFile
	ExceptionInEngine
	RuleMissingRequiredPolicy
	OneOrMoreTargetsInvalid
)

// FatalConditions is the subset that forces a non-zero exit even when every
// individual target succeeded. Invalid targets, missing rule policy, and an
// unreadable policy file are data, not driver failure.
const FatalConditions = ExceptionCreatingLogFile |
	ExceptionWritingToLogFile |
	ExceptionInstantiatingRules |
	ExceptionInRuleInitialize |
	ExceptionInRuleCanAnalyze |
	ExceptionInRuleAnalyze |
	ExceptionLoadingTargetFile |
	ExceptionInEngine

// Conditions accumulates RuntimeConditions for exactly one run. It is
// monotonic: flags are set, never cleared. Safe for concurrent use.
type Conditions struct {
	bits atomic.Uint32
}

func (c *Conditions) Set(f RuntimeConditions) {
	for {
		old := c.bits.Load()
		if c.bits.CompareAndSwap(old, old|uint32(f)) {
			return
		}
	}
}

func (c *Conditions) Any(mask RuntimeConditions) bool {
	return RuntimeConditions(c.bits.Load())&mask != 0
}

func (c *Conditions) Value() RuntimeConditions {
	return RuntimeConditions(c.bits.Load())
}

func exitCodeForRun(c *Conditions) int {
	// Exit code contract:
	// 0 = clean run
	// 1 = a fatal runtime condition was recorded during analysis
	// 2 = the requested output log file could not be created or written
	// 3 = fatal driver error (rule discovery failed, or a fault escaped the
	//     analysis phase)
	switch {
	case c.Any(ExceptionCreatingLogFile | ExceptionWritingToLogFile):
		return 2
	case c.Any(ExceptionInstantiatingRules | ExceptionInEngine):
		return 3
	case c.Any(FatalConditions):
		return 1
	}
	return 0
}
