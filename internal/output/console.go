package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"binscope/internal/analysis"

	"github.com/fatih/color"
)

// ConsoleSink prints findings as human-readable lines. Pass, note, and
// notApplicable findings are shown only in verbose mode, matching the
// structured log writer's emission policy.
type ConsoleSink struct {
	writer       io.Writer
	verbose      bool
	mu           sync.Mutex
	allowedKinds map[analysis.ResultKind]bool
}

func NewConsoleSink(w io.Writer, verbose bool, filterKinds []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}

	s := &ConsoleSink{
		writer:  w,
		verbose: verbose,
	}

	if len(filterKinds) > 0 {
		s.allowedKinds = make(map[analysis.ResultKind]bool)
		for _, k := range filterKinds {
			s.allowedKinds[analysis.ResultKind(strings.TrimSpace(k))] = true
		}
	}

	return s
}

func (s *ConsoleSink) Log(f analysis.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch f.Kind {
	case analysis.KindPass, analysis.KindNote, analysis.KindNotApplicable:
		if !s.verbose {
			return nil
		}
	}

	if len(s.allowedKinds) > 0 && !s.allowedKinds[f.Kind] {
		return nil
	}

	label := kindColor(f.Kind).Sprintf("%s", f.Kind)
	if _, err := fmt.Fprintf(s.writer, "[%s] %s: %s", label, f.RuleID, f.Message); err != nil {
		return err
	}
	if f.Target != "" {
		if _, err := fmt.Fprintf(s.writer, " (%s)", f.Target); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.writer); err != nil {
		return err
	}
	// Findings should appear as they happen when the writer buffers.
	if fw, ok := s.writer.(interface{ Flush() error }); ok {
		return fw.Flush()
	}
	return nil
}

func (s *ConsoleSink) Close() error {
	return nil
}

func kindColor(kind analysis.ResultKind) *color.Color {
	switch kind {
	case analysis.KindPass:
		return color.New(color.FgGreen)
	case analysis.KindWarning:
		return color.New(color.FgYellow)
	case analysis.KindError, analysis.KindInternalError:
		return color.New(color.FgRed)
	case analysis.KindConfigurationError:
		return color.New(color.FgMagenta)
	default:
		return color.New()
	}
}
