package rules

import (
	"sort"
	"strings"
	"testing"

	"binscope/internal/analysis"
)

type namedRule struct {
	id string
}

func (r *namedRule) ID() string                                 { return r.id }
func (r *namedRule) Name() string                               { return r.id }
func (r *namedRule) Description() string                        { return "" }
func (r *namedRule) Initialize(*analysis.AnalysisContext) error { return nil }
func (r *namedRule) Analyze(*analysis.AnalysisContext) error    { return nil }

func (r *namedRule) CanAnalyze(*analysis.AnalysisContext) (analysis.Applicability, string, error) {
	return analysis.ApplicableToTarget, "", nil
}

func TestRegistry(t *testing.T) {
	// The registry is process-global, so every test rule gets a unique id
	// prefix to stay clear of the compiled-in checks.
	Register(&namedRule{id: "test-bravo"})
	Register(&namedRule{id: "test-alpha"})
	Register(&namedRule{id: "test-charlie"})

	t.Run("List is sorted by id", func(t *testing.T) {
		var ids []string
		for _, r := range List() {
			if strings.HasPrefix(r.ID(), "test-") {
				ids = append(ids, r.ID())
			}
		}
		if !sort.StringsAreSorted(ids) {
			t.Fatalf("List not sorted: %v", ids)
		}
		if len(ids) != 3 {
			t.Fatalf("want 3 test rules, got %v", ids)
		}
	})

	t.Run("Resolve with empty selector returns everything", func(t *testing.T) {
		all, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if len(all) != len(List()) {
			t.Fatalf("want %d rules, got %d", len(List()), len(all))
		}
	})

	t.Run("Resolve picks listed ids and trims spaces", func(t *testing.T) {
		rs, err := Resolve("test-charlie, test-alpha")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if len(rs) != 2 || rs[0].ID() != "test-charlie" || rs[1].ID() != "test-alpha" {
			t.Fatalf("unexpected selection: %v", rs)
		}
	})

	t.Run("Resolve rejects unknown ids", func(t *testing.T) {
		_, err := Resolve("test-alpha,no-such-rule")
		if err == nil {
			t.Fatalf("want error, got nil")
		}
		if !strings.Contains(err.Error(), "rule not found: no-such-rule") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("want panic on duplicate registration")
			}
		}()
		Register(&namedRule{id: "test-alpha"})
	})
}
