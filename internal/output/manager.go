package output

import (
	"errors"
	"fmt"

	"binscope/internal/analysis"
)

// Sink is a destination for findings. Sinks never know about each other.
type Sink interface {
	Log(f analysis.Finding) error
	Close() error
}

// Manager fans every Log call out to its sinks, synchronously, in attachment
// order. A failing sink is a sink bug: the error is not swallowed here, it
// propagates to the caller's per-call handling.
type Manager struct {
	sinks  []Sink
	closed bool
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Log(f analysis.Finding) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Log(f); err != nil {
			errs = append(errs, fmt.Errorf("log %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

// Close disposes every attached sink in attachment order. Each close is
// wrapped independently so a failing sink cannot prevent the remaining sinks
// from flushing. Closing twice is a no-op.
func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
