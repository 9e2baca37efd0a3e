package engine

import (
	"fmt"

	"binscope/internal/analysis"
)

// invoke runs fn and converts a panic into an error, so a misbehaving rule
// cannot crash the analysis loop.
func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// ruleIdentity reads a rule's id, tolerating metadata accessors that fail.
// The fallback identity is the rule's concrete type, which keeps the disable
// set and failure attribution working for rules whose ID accessor panics.
func ruleIdentity(r analysis.Rule) (id string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			id = fmt.Sprintf("%T", r)
			err = fmt.Errorf("panic reading rule identity: %v", rec)
		}
	}()
	return r.ID(), nil
}
