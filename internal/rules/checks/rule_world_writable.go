package checks

import (
	"fmt"
	"os"
	"runtime"

	"binscope/internal/analysis"
	"binscope/internal/rules"
)

type WorldWritableRule struct{}

func (r *WorldWritableRule) ID() string {
	return "world-writable"
}

func (r *WorldWritableRule) Name() string {
	return "Target Is Not World-Writable"
}

func (r *WorldWritableRule) Description() string {
	return "Verifies that the target file does not grant write permission to all users. World-writable artifacts can be replaced by any local account."
}

func (r *WorldWritableRule) Initialize(ctx *analysis.AnalysisContext) error {
	return nil
}

func (r *WorldWritableRule) CanAnalyze(ctx *analysis.AnalysisContext) (analysis.Applicability, string, error) {
	if runtime.GOOS == "windows" {
		return analysis.NotApplicableToTarget, "POSIX permission bits are not meaningful on this platform", nil
	}
	return analysis.ApplicableToTarget, "", nil
}

func (r *WorldWritableRule) Analyze(ctx *analysis.AnalysisContext) error {
	info, err := os.Stat(ctx.TargetURI)
	if err != nil {
		return fmt.Errorf("failed to stat target: %w", err)
	}

	if info.Mode().Perm()&0o002 != 0 {
		return ctx.Log(analysis.KindWarning,
			fmt.Sprintf("Target has mode %04o and is writable by all users.", info.Mode().Perm()))
	}
	return ctx.Log(analysis.KindPass, "Target is not world-writable.")
}

func init() {
	rules.Register(&WorldWritableRule{})
}
