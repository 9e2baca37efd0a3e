package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"binscope/internal/analysis"
	"binscope/internal/hashing"
)

// FormatVersion identifies the interchange log format revision. Downstream
// consumers depend on the document layout byte-for-byte, so the field order
// of the records below must not change.
const FormatVersion = "0.4"

const targetMimeType = "application/octet-stream"

// ToolInfo identifies the tool that produced the log.
type ToolInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	FullName string `json:"fullName"`
}

type runInfo struct {
	InvocationInfo  string           `json:"invocationInfo"`
	AnalysisTargets []analysisTarget `json:"analysisTargets"`
}

type analysisTarget struct {
	URI    string     `json:"uri"`
	Hashes []fileHash `json:"hashes,omitempty"`
}

type fileHash struct {
	Value     string `json:"value"`
	Algorithm string `json:"algorithm"`
}

type resultRecord struct {
	RuleID      string     `json:"ruleId"`
	FullMessage string     `json:"fullMessage"`
	Kind        string     `json:"kind"`
	Locations   []location `json:"locations"`
}

type location struct {
	AnalysisTarget []physicalLocation `json:"analysisTarget"`
}

type physicalLocation struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

// LogFileSink owns exactly one output stream for the run's duration and
// serializes tool identity, run metadata, and the ordered finding stream into
// the interchange format. The header (toolInfo + runInfo) is written at
// construction, before any finding is accepted; the format requires that
// ordering.
type LogFileSink struct {
	mu      sync.Mutex
	file    *os.File
	w       *bufio.Writer
	verbose bool
	wrote   bool
	closed  bool
}

// NewLogFileSink opens path for exclusive use by this sink and immediately
// writes the header. computeHashes embeds a sha256 content hash per target;
// targets that cannot be hashed are listed without one.
func NewLogFileSink(path string, verbose bool, targets []string, computeHashes bool, tool ToolInfo, invocation string) (*LogFileSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	s := &LogFileSink{file: f, w: bufio.NewWriter(f), verbose: verbose}
	if err := s.writeHeader(targets, computeHashes, tool, invocation); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}
	return s, nil
}

func (s *LogFileSink) writeHeader(targets []string, computeHashes bool, tool ToolInfo, invocation string) error {
	ri := runInfo{
		InvocationInfo:  invocation,
		AnalysisTargets: []analysisTarget{},
	}
	for _, t := range targets {
		at := analysisTarget{URI: canonicalTargetURI(t)}
		if computeHashes {
			if v, err := hashing.SHA256(t); err == nil {
				at.Hashes = []fileHash{{Value: v, Algorithm: "sha256"}}
			}
		}
		ri.AnalysisTargets = append(ri.AnalysisTargets, at)
	}

	toolJSON, err := json.Marshal(tool)
	if err != nil {
		return err
	}
	runJSON, err := json.Marshal(ri)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, `{"version":%q,"toolInfo":%s,"runInfo":%s,"results":[`,
		FormatVersion, toolJSON, runJSON)
	return err
}

// Log serializes one finding. Pass, note, and notApplicable findings are
// emitted only in verbose mode. Warnings are normalized to error severity in
// the emitted record so downstream consumers do not need a separate warning
// branch. An unknown kind is a programming error and fails loudly.
func (s *LogFileSink) Log(f analysis.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("log file sink is closed")
	}

	kind := f.Kind
	switch kind {
	case analysis.KindPass, analysis.KindNote, analysis.KindNotApplicable:
		if !s.verbose {
			return nil
		}
	case analysis.KindWarning:
		kind = analysis.KindError
	case analysis.KindError, analysis.KindConfigurationError, analysis.KindInternalError:
		// always emitted
	default:
		return fmt.Errorf("unrecognized result kind %q", f.Kind)
	}

	rec := resultRecord{
		RuleID:      f.RuleID,
		FullMessage: f.Message,
		Kind:        string(kind),
		Locations:   []location{},
	}
	if f.Target != "" {
		rec.Locations = append(rec.Locations, location{
			AnalysisTarget: []physicalLocation{{
				URI:      canonicalTargetURI(f.Target),
				MimeType: targetMimeType,
			}},
		})
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if s.wrote {
		if err := s.w.WriteByte(','); err != nil {
			return err
		}
	}
	if _, err := s.w.Write(raw); err != nil {
		return err
	}
	s.wrote = true
	return nil
}

// Close terminates the results array, flushes, and closes the stream exactly
// once. A second Close is a no-op.
func (s *LogFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if _, werr := s.w.WriteString("]}\n"); werr != nil {
		err = werr
	}
	if ferr := s.w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
