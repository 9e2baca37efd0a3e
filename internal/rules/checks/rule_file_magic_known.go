package checks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"binscope/internal/analysis"
	"binscope/internal/rules"
)

// textExtensions are treated as plain-text artifacts; magic probing does not
// apply to them.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".json": true,
	".yaml": true, ".yml": true, ".xml": true,
}

var knownMagics = [][]byte{
	{0x7f, 'E', 'L', 'F'},       // ELF
	{'M', 'Z'},                  // PE/COFF
	{0xcf, 0xfa, 0xed, 0xfe},    // Mach-O 64-bit
	{0xce, 0xfa, 0xed, 0xfe},    // Mach-O 32-bit
	{'P', 'K', 0x03, 0x04},      // zip
	{0x1f, 0x8b},                // gzip
	[]byte("!<arch>"),           // ar archive
	{'#', '!'},                  // script with interpreter line
}

type FileMagicKnownRule struct{}

func (r *FileMagicKnownRule) ID() string {
	return "file-magic-known"
}

func (r *FileMagicKnownRule) Name() string {
	return "File Magic Is Recognized"
}

func (r *FileMagicKnownRule) Description() string {
	return "Verifies that the target starts with a recognized binary or script signature. Unrecognized leading bytes usually indicate a truncated or mislabeled artifact."
}

func (r *FileMagicKnownRule) Initialize(ctx *analysis.AnalysisContext) error {
	return nil
}

func (r *FileMagicKnownRule) CanAnalyze(ctx *analysis.AnalysisContext) (analysis.Applicability, string, error) {
	ext := strings.ToLower(filepath.Ext(ctx.TargetURI))
	if textExtensions[ext] {
		return analysis.NotApplicableToTarget, fmt.Sprintf("'%s' is a plain-text artifact", ext), nil
	}
	return analysis.ApplicableToTarget, "", nil
}

func (r *FileMagicKnownRule) Analyze(ctx *analysis.AnalysisContext) error {
	f, err := os.Open(ctx.TargetURI)
	if err != nil {
		return fmt.Errorf("failed to open target: %w", err)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := f.Read(head)
	if err != nil {
		return fmt.Errorf("failed to read target header: %w", err)
	}
	head = head[:n]

	for _, magic := range knownMagics {
		if bytes.HasPrefix(head, magic) {
			return ctx.Log(analysis.KindPass, "Target begins with a recognized signature.")
		}
	}
	return ctx.Log(analysis.KindWarning, "Target does not begin with any recognized binary or script signature.")
}

func init() {
	rules.Register(&FileMagicKnownRule{})
}
