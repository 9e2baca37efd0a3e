package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"binscope/internal/analysis"
)

// StatisticsSink passively counts valid and invalid targets from the finding
// stream and prints a summary at teardown. It never fails a write and never
// affects the run's exit code.
type StatisticsSink struct {
	writer  io.Writer
	started time.Time

	mu      sync.Mutex
	valid   int
	invalid int
	closed  bool
}

func NewStatisticsSink(w io.Writer) *StatisticsSink {
	if w == nil {
		w = os.Stderr
	}
	return &StatisticsSink{writer: w, started: time.Now()}
}

func (s *StatisticsSink) Log(f analysis.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case f.Kind == analysis.KindNote && f.RuleID == analysis.AnalyzingTargetID:
		s.valid++
	case f.Kind == analysis.KindNotApplicable && f.RuleID == analysis.InvalidTargetID:
		s.invalid++
	}
	return nil
}

// Counts returns the accumulated counters.
func (s *StatisticsSink) Counts() (valid, invalid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid, s.invalid
}

func (s *StatisticsSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	fmt.Fprintf(s.writer, "Valid targets:   %d\n", s.valid)
	fmt.Fprintf(s.writer, "Invalid targets: %d\n", s.invalid)
	fmt.Fprintf(s.writer, "Elapsed:         %s\n", time.Since(s.started).Round(time.Millisecond))
	return nil
}
