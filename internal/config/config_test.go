package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		if err := New().Validate(); err != nil {
			t.Fatalf("Validate error: %v", err)
		}
	})

	t.Run("normalizes comma lists", func(t *testing.T) {
		cfg := New()
		cfg.Targeting.Specifiers = []string{"a.bin, b.bin", "c.bin"}
		cfg.Output.ConsoleFilterKinds = []string{"error,warning", " pass "}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate error: %v", err)
		}
		if want := []string{"a.bin", "b.bin", "c.bin"}; !reflect.DeepEqual(cfg.Targeting.Specifiers, want) {
			t.Fatalf("specifiers: want %v, got %v", want, cfg.Targeting.Specifiers)
		}
		if want := []string{"error", "warning", "pass"}; !reflect.DeepEqual(cfg.Output.ConsoleFilterKinds, want) {
			t.Fatalf("filter kinds: want %v, got %v", want, cfg.Output.ConsoleFilterKinds)
		}
	})

	t.Run("rejects malformed filter pattern", func(t *testing.T) {
		cfg := New()
		cfg.Targeting.Filter = "[unclosed"
		if err := cfg.Validate(); err == nil {
			t.Fatalf("want error for malformed filter")
		}
	})

	t.Run("rejects unknown console filter kind", func(t *testing.T) {
		cfg := New()
		cfg.Output.ConsoleFilterKinds = []string{"error", "bogus"}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "bogus") {
			t.Fatalf("want error naming the bad kind, got %v", err)
		}
	})

	t.Run("rejects non-positive concurrency", func(t *testing.T) {
		cfg := New()
		cfg.Runtime.Concurrency = 0
		if err := cfg.Validate(); err == nil {
			t.Fatalf("want error for concurrency 0")
		}
	})

	t.Run("rejects malformed set entries", func(t *testing.T) {
		for _, bad := range []string{"noequals", "missingdot=1", ".opt=1", "rule.=1"} {
			cfg := New()
			cfg.Rules.Set = []string{bad}
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate with set %q: want error, got nil", bad)
			}
		}
	})
}

func TestParseRuleOptionAssignments(t *testing.T) {
	t.Run("groups options by rule", func(t *testing.T) {
		got, err := ParseRuleOptionAssignments([]string{
			"file-size-limit.max_bytes=1024",
			"file-size-limit.mode=strict,other-rule.enabled=true",
		})
		if err != nil {
			t.Fatalf("ParseRuleOptionAssignments error: %v", err)
		}
		want := map[string]map[string]string{
			"file-size-limit": {"max_bytes": "1024", "mode": "strict"},
			"other-rule":      {"enabled": "true"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("want %v, got %v", want, got)
		}
	})

	t.Run("allows empty values", func(t *testing.T) {
		got, err := ParseRuleOptionAssignments([]string{"rule.opt="})
		if err != nil {
			t.Fatalf("ParseRuleOptionAssignments error: %v", err)
		}
		if got["rule"]["opt"] != "" {
			t.Fatalf("want empty value, got %q", got["rule"]["opt"])
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		got, err := ParseRuleOptionAssignments([]string{" rule . opt = v "})
		if err != nil {
			t.Fatalf("ParseRuleOptionAssignments error: %v", err)
		}
		if got["rule"]["opt"] != "v" {
			t.Fatalf("want trimmed value v, got %v", got)
		}
	})
}
