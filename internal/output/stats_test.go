package output

import (
	"strings"
	"testing"

	"binscope/internal/analysis"
)

func TestStatisticsSink(t *testing.T) {
	t.Run("counts valid and invalid targets", func(t *testing.T) {
		s := NewStatisticsSink(&strings.Builder{})
		_ = s.Log(analysis.Finding{RuleID: analysis.AnalyzingTargetID, Kind: analysis.KindNote, Message: "Analyzing '/tmp/a'..."})
		_ = s.Log(analysis.Finding{RuleID: analysis.AnalyzingTargetID, Kind: analysis.KindNote, Message: "Analyzing '/tmp/b'..."})
		_ = s.Log(analysis.Finding{RuleID: analysis.InvalidTargetID, Kind: analysis.KindNotApplicable, Message: "not a valid target"})

		valid, invalid := s.Counts()
		if valid != 2 {
			t.Fatalf("valid: want 2, got %d", valid)
		}
		if invalid != 1 {
			t.Fatalf("invalid: want 1, got %d", invalid)
		}
	})

	t.Run("ignores unrelated findings", func(t *testing.T) {
		s := NewStatisticsSink(&strings.Builder{})
		_ = s.Log(analysis.Finding{RuleID: "some-rule", Kind: analysis.KindError, Message: "bad"})
		_ = s.Log(analysis.Finding{RuleID: "some-rule", Kind: analysis.KindNote, Message: "note from a rule"})
		_ = s.Log(analysis.Finding{RuleID: analysis.AnalyzingTargetID, Kind: analysis.KindError, Message: "wrong kind"})

		valid, invalid := s.Counts()
		if valid != 0 || invalid != 0 {
			t.Fatalf("want 0/0, got %d/%d", valid, invalid)
		}
	})

	t.Run("Close prints the summary once", func(t *testing.T) {
		var buf strings.Builder
		s := NewStatisticsSink(&buf)
		_ = s.Log(analysis.Finding{RuleID: analysis.AnalyzingTargetID, Kind: analysis.KindNote, Message: "Analyzing '/tmp/a'..."})

		if err := s.Close(); err != nil {
			t.Fatalf("Close error: %v", err)
		}
		got := buf.String()
		if !strings.Contains(got, "Valid targets:   1") {
			t.Fatalf("missing valid count: %q", got)
		}
		if !strings.Contains(got, "Invalid targets: 0") {
			t.Fatalf("missing invalid count: %q", got)
		}
		if !strings.Contains(got, "Elapsed:") {
			t.Fatalf("missing elapsed line: %q", got)
		}

		before := buf.Len()
		if err := s.Close(); err != nil {
			t.Fatalf("second Close error: %v", err)
		}
		if buf.Len() != before {
			t.Fatalf("second Close wrote again: %q", buf.String())
		}
	})
}
